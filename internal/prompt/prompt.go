// Package prompt assembles the prompts sent to the content generator.
package prompt

import (
	"fmt"
	"strings"
)

// User story template labels.
const (
	TemplateScrum  = "scrum"
	TemplateJTBD   = "jtbd"
	TemplateSimple = "simple"
)

const scrumInstructions = `Format the user story using the Scrum/Agile format:

**User Story:**
As a [type of user],
I want [an action/feature],
So that [benefit/value].

**Acceptance Criteria:**
- [Criterion 1]
- [Criterion 2]
- [Criterion 3]

**Technical Notes:**
[Any technical considerations]

**Estimated Story Points:** [1, 2, 3, 5, 8, 13, or 21]`

const jtbdInstructions = `Format the user story using the Jobs-to-be-Done (JTBD) format:

**Job Story:**
When [situation/context],
I want to [motivation/goal],
So I can [expected outcome].

**Success Criteria:**
- [Criterion 1]
- [Criterion 2]
- [Criterion 3]

**Forces/Constraints:**
[Any constraints or considerations]

**Estimated Effort:** [Small, Medium, Large, or XL]`

const simpleInstructions = `Format the user story in a simple, straightforward format:

**Feature:** [Feature name]

**Description:**
[Clear description of what needs to be built]

**Why It Matters:**
[Business value and user benefit]

**Key Requirements:**
- [Requirement 1]
- [Requirement 2]
- [Requirement 3]

**Success Metrics:**
[How we'll measure success]`

// UserStory builds the prompt for a single user story. Unknown templates get
// the Scrum format.
func UserStory(featureDescription, template string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert Product Manager. Generate a detailed user story based on the following feature description:\n\n%s\n\n", featureDescription)

	switch template {
	case TemplateJTBD:
		b.WriteString(jtbdInstructions)
	case TemplateSimple:
		b.WriteString(simpleInstructions)
	default:
		b.WriteString(scrumInstructions)
	}

	b.WriteString("\n\nMake the user story specific, actionable, and valuable.")
	return b.String()
}

// PRDInput carries the PRD form fields. Empty fields are replaced by
// bracketed placeholders so the generator fills the gaps.
type PRDInput struct {
	ProductName          string `json:"productName" yaml:"product_name"`
	ProblemStatement     string `json:"problemStatement" yaml:"problem_statement"`
	BusinessGoal         string `json:"businessGoal" yaml:"business_goal"`
	TargetUsersPrimary   string `json:"targetUsersPrimary" yaml:"target_users_primary"`
	TargetUsersSecondary string `json:"targetUsersSecondary" yaml:"target_users_secondary"`
	Narrative            string `json:"narrative" yaml:"narrative"`
	ImpactSizing         string `json:"impactSizing" yaml:"impact_sizing"`
	Metrics              string `json:"metrics" yaml:"metrics"`
	KnownInfo            string `json:"knownInfo" yaml:"known_info"`
	Goals                string `json:"goals" yaml:"goals"`
	NonGoals             string `json:"nonGoals" yaml:"non_goals"`
	HighLevelApproach    string `json:"highLevelApproach" yaml:"high_level_approach"`
	SolutionAlignment    string `json:"solutionAlignment" yaml:"solution_alignment"`
	KeyFeatures          string `json:"keyFeatures" yaml:"key_features"`
	FutureConsiderations string `json:"futureConsiderations" yaml:"future_considerations"`
	KeyFlows             string `json:"keyFlows" yaml:"key_flows"`
	KeyLogic             string `json:"keyLogic" yaml:"key_logic"`
	TechnicalReqs        string `json:"technicalReqs" yaml:"technical_reqs"`
	Dependencies         string `json:"dependencies" yaml:"dependencies"`
	LaunchPlan           string `json:"launchPlan" yaml:"launch_plan"`
	Milestones           string `json:"milestones" yaml:"milestones"`
	Risks                string `json:"risks" yaml:"risks"`
	SuccessCriteria      string `json:"successCriteria" yaml:"success_criteria"`
}

// PRD builds the comprehensive PRD prompt from the form input.
func PRD(in PRDInput) string {
	var b strings.Builder
	b.WriteString("You are an expert Product Manager. Generate a comprehensive Product Requirements Document (PRD) based on the following information:\n\n")

	fmt.Fprintf(&b, "# Product: %s\n\n", orDefault(in.ProductName, "[Product Name]"))

	section(&b, "Problem Statement", in.ProblemStatement, "[Define the problem this product solves]")
	section(&b, "Business Goal", in.BusinessGoal, "[Define the business objective]")

	b.WriteString("## Target Users\n")
	fmt.Fprintf(&b, "**Primary:** %s\n", orDefault(in.TargetUsersPrimary, "[Define primary users]"))
	fmt.Fprintf(&b, "**Secondary:** %s\n\n", orDefault(in.TargetUsersSecondary, "[Define secondary users]"))

	section(&b, "User/Business Narrative", in.Narrative, "[Describe the user journey and business context]")
	section(&b, "Impact & Sizing", in.ImpactSizing, "[Estimate the potential impact and effort]")
	section(&b, "Success Metrics", in.Metrics, "[Define how success will be measured]")
	section(&b, "Known Information & Constraints", in.KnownInfo, "[List any known constraints or requirements]")
	section(&b, "Goals", in.Goals, "[What we want to achieve]")
	section(&b, "Non-Goals", in.NonGoals, "[What is explicitly out of scope]")
	section(&b, "High-Level Approach", in.HighLevelApproach, "[Describe the general solution approach]")
	section(&b, "Solution Alignment", in.SolutionAlignment, "[How this aligns with company strategy]")
	section(&b, "Key Features", in.KeyFeatures, "[List the main features to build]")
	section(&b, "Future Considerations", in.FutureConsiderations, "[What might come in future iterations]")
	section(&b, "Key User Flows", in.KeyFlows, "[Describe critical user flows]")
	section(&b, "Key Business Logic", in.KeyLogic, "[Describe important business rules]")
	section(&b, "Technical Requirements", in.TechnicalReqs, "[List technical specifications]")
	section(&b, "Dependencies", in.Dependencies, "[List any dependencies on other systems/teams]")
	section(&b, "Launch Plan", in.LaunchPlan, "[Describe rollout strategy]")
	section(&b, "Milestones", in.Milestones, "[Key dates and checkpoints]")
	section(&b, "Risks & Mitigations", in.Risks, "[Identify risks and how to address them]")
	section(&b, "Success Criteria", in.SuccessCriteria, "[Final acceptance criteria]")

	b.WriteString("---\n\n")
	b.WriteString("Based on the above information, generate a well-structured, comprehensive PRD that fills in any gaps, provides detailed specifications, and ensures all stakeholders have a clear understanding of what needs to be built. Make it actionable and specific.")
	return b.String()
}

func section(b *strings.Builder, title, value, placeholder string) {
	fmt.Fprintf(b, "## %s\n%s\n\n", title, orDefault(value, placeholder))
}

func orDefault(value, placeholder string) string {
	if strings.TrimSpace(value) == "" {
		return placeholder
	}
	return value
}
