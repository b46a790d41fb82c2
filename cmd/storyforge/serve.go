package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/storyforge-dev/storyforge/internal/api"
	"github.com/storyforge-dev/storyforge/pkg/notion"
	"github.com/storyforge-dev/storyforge/pkg/observability"
	"github.com/storyforge-dev/storyforge/pkg/store"
)

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if port != 0 {
				cfg.HTTPPort = port
			}

			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			prov, err := newProvider(cfg)
			if err != nil {
				return err
			}

			var notionClient *notion.Client
			if cfg.Notion.Token != "" && cfg.Notion.DatabaseID != "" {
				notionClient, err = notion.NewClient(notion.Config{
					Token:      cfg.Notion.Token,
					DatabaseID: cfg.Notion.DatabaseID,
				})
				if err != nil {
					return err
				}
			}

			observability.InitMetrics()
			health := observability.NewHealthChecker()
			if rs, ok := st.(*store.RedisStore); ok {
				health.RegisterCheck(observability.StoreCheck(rs.Ping))
			}
			if notionClient != nil {
				health.RegisterCheck(observability.ExternalServiceCheck("notion", func(ctx context.Context) error {
					_, err := notionClient.TestConnection(ctx)
					return err
				}))
			}

			server := api.NewServer(api.Options{
				Port:     cfg.HTTPPort,
				Provider: prov,
				Store:    st,
				Notion:   notionClient,
				Health:   health,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-ctx.Done()
				log.Println("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return server.Shutdown(shutdownCtx)
			})

			return g.Wait()
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "Listen port (overrides config)")
	return cmd
}
