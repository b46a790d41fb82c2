// Package notion integrates with the Notion API: connectivity checks, page
// creation from parsed stories, and the sequential rate-limited batch export.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/storyforge-dev/storyforge/internal/story"
)

const (
	defaultBaseURL = "https://api.notion.com/v1"
	notionVersion  = "2022-06-28"
)

// Config holds the Notion integration credentials.
type Config struct {
	// Token is the integration token, sent as a bearer credential.
	Token string `json:"token" yaml:"token"`
	// DatabaseID is the target database for created pages.
	DatabaseID string `json:"databaseId" yaml:"database_id"`
	// BaseURL overrides the API endpoint (used in tests).
	BaseURL string `json:"-" yaml:"-"`
}

// APIError is a non-2xx response from the Notion API.
type APIError struct {
	StatusCode int    `json:"status"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("notion: %s (status %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("notion: request failed with status %d", e.StatusCode)
}

// Client talks to the Notion API.
type Client struct {
	token      string
	databaseID string
	baseURL    string
	client     *http.Client
}

// NewClient creates a Notion client. Both credentials are required.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Token == "" || cfg.DatabaseID == "" {
		return nil, errors.New("notion integration token and database ID are required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		token:      cfg.Token,
		databaseID: cfg.DatabaseID,
		baseURL:    baseURL,
		client:     &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload, result any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", notionVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("notion request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		raw, _ := io.ReadAll(resp.Body)
		_ = json.Unmarshal(raw, apiErr)
		return apiErr
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// richText is Notion's rich text array element.
type richText struct {
	Type string `json:"type,omitempty"`
	Text struct {
		Content string `json:"content"`
	} `json:"text"`
	PlainText string `json:"plain_text,omitempty"`
}

func text(content string) []richText {
	rt := richText{Type: "text"}
	rt.Text.Content = content
	return []richText{rt}
}

type databaseResponse struct {
	Title      []richText                 `json:"title"`
	Properties map[string]json.RawMessage `json:"properties"`
}

// ConnectionInfo describes the database a successful connection test reached.
type ConnectionInfo struct {
	DatabaseTitle string   `json:"databaseTitle"`
	Properties    []string `json:"properties"`
}

// TestConnection verifies the credentials by fetching the target database.
func (c *Client) TestConnection(ctx context.Context) (*ConnectionInfo, error) {
	var resp databaseResponse
	if err := c.do(ctx, http.MethodGet, "/databases/"+c.databaseID, nil, &resp); err != nil {
		return nil, err
	}

	title := "Untitled Database"
	if len(resp.Title) > 0 && resp.Title[0].PlainText != "" {
		title = resp.Title[0].PlainText
	}

	props := make([]string, 0, len(resp.Properties))
	for name := range resp.Properties {
		props = append(props, name)
	}

	return &ConnectionInfo{DatabaseTitle: title, Properties: props}, nil
}

// Schema is the database schema with raw property definitions.
type Schema struct {
	Title      string                     `json:"title"`
	Properties map[string]json.RawMessage `json:"properties"`
}

// DatabaseSchema retrieves the target database's property definitions.
func (c *Client) DatabaseSchema(ctx context.Context) (*Schema, error) {
	var resp databaseResponse
	if err := c.do(ctx, http.MethodGet, "/databases/"+c.databaseID, nil, &resp); err != nil {
		return nil, err
	}

	title := "Untitled"
	if len(resp.Title) > 0 && resp.Title[0].PlainText != "" {
		title = resp.Title[0].PlainText
	}

	return &Schema{Title: title, Properties: resp.Properties}, nil
}

type selectProperty struct {
	Select struct {
		Name string `json:"name"`
	} `json:"select"`
}

func selectValue(name string) selectProperty {
	var p selectProperty
	p.Select.Name = name
	return p
}

type titleProperty struct {
	Title []richText `json:"title"`
}

type numberProperty struct {
	Number int `json:"number"`
}

type block struct {
	Object    string        `json:"object"`
	Type      string        `json:"type"`
	Paragraph *richTextBody `json:"paragraph,omitempty"`
	Heading3  *richTextBody `json:"heading_3,omitempty"`
	ToDo      *toDoBody     `json:"to_do,omitempty"`
}

type richTextBody struct {
	RichText []richText `json:"rich_text"`
}

type toDoBody struct {
	RichText []richText `json:"rich_text"`
	Checked  bool       `json:"checked"`
}

type pageRequest struct {
	Parent struct {
		DatabaseID string `json:"database_id"`
	} `json:"parent"`
	Properties map[string]any `json:"properties"`
	Children   []block        `json:"children"`
}

type pageResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// PageResult describes one created page.
type PageResult struct {
	PageID string `json:"pageId"`
	URL    string `json:"url"`
	Title  string `json:"title"`
}

// CreatePage parses one story text and creates a database page for it: the
// extracted fields become properties, the verbatim text a paragraph block,
// and each acceptance criterion an unchecked to-do block.
func (c *Client) CreatePage(ctx context.Context, content string) (*PageResult, error) {
	parsed := story.Parse(content)

	title := parsed.Title
	if title == "" {
		title = "Untitled User Story"
	}

	props := map[string]any{
		"Name":   titleProperty{Title: text(title)},
		"Type":   selectValue(parsed.Type),
		"Status": selectValue("To Do"),
	}
	if parsed.StoryPoints != nil {
		props["Story Points"] = numberProperty{Number: *parsed.StoryPoints}
	}
	if parsed.Priority != "" {
		props["Priority"] = selectValue(parsed.Priority)
	}

	children := []block{
		{Object: "block", Type: "paragraph", Paragraph: &richTextBody{RichText: text(parsed.FullContent)}},
	}
	if len(parsed.AcceptanceCriteria) > 0 {
		children = append(children, block{
			Object:   "block",
			Type:     "heading_3",
			Heading3: &richTextBody{RichText: text("Acceptance Criteria")},
		})
		for _, criterion := range parsed.AcceptanceCriteria {
			children = append(children, block{
				Object: "block",
				Type:   "to_do",
				ToDo:   &toDoBody{RichText: text(criterion), Checked: false},
			})
		}
	}

	req := pageRequest{Properties: props, Children: children}
	req.Parent.DatabaseID = c.databaseID

	var resp pageResponse
	if err := c.do(ctx, http.MethodPost, "/pages", req, &resp); err != nil {
		return nil, err
	}

	return &PageResult{PageID: resp.ID, URL: resp.URL, Title: title}, nil
}
