package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"adaptagent/internal/llm"
	"adaptagent/internal/model"
	"adaptagent/internal/repository"
)

const (
	// contextEntries is how many recent knowledge entries Query sends as context.
	contextEntries = 5
	// contextEntryLen truncates each context entry.
	contextEntryLen = 500
	// projectTasks is how many tasks AnalyzeProject lists in the prompt.
	projectTasks = 50
)

// listMarker matches "1." or "2)" followed by whitespace or end of line, so
// leading decimals such as "1.5" are kept.
var listMarker = regexp.MustCompile(`^(?:\d+[.)](?:\s+|$)|[-*•]\s+)`)

type AnalyzeTaskInput struct {
	Task string `json:"task" validate:"required,notblank,max=4000"`
}

type GenerateCodeInput struct {
	Task     string `json:"task" validate:"required,notblank,max=4000"`
	Language string `json:"language" validate:"required,notblank,max=50"`
}

type QuestionInput struct {
	Question string `json:"question" validate:"required,notblank,max=4000"`
}

type QueryInput struct {
	Query string `json:"query" validate:"required,notblank,max=4000"`
}

type TaskAnalysis struct {
	Steps []string `json:"steps"`
}

type GeneratedCode struct {
	Language string `json:"language"`
	Code     string `json:"code"`
}

type Answer struct {
	Answer string `json:"answer"`
}

type ProjectAnalysis struct {
	ProjectID string         `json:"project_id"`
	Summary   string         `json:"summary"`
	Tasks     map[string]int `json:"tasks"`
}

// AgentService builds prompts and asks the language model.
type AgentService interface {
	AnalyzeTask(ctx context.Context, in AnalyzeTaskInput) (*TaskAnalysis, error)
	GenerateCode(ctx context.Context, in GenerateCodeInput) (*GeneratedCode, error)
	AnswerQuestion(ctx context.Context, in QuestionInput) (*Answer, error)
	// Query answers using the caller's most recent knowledge entries as context.
	Query(ctx context.Context, ownerID string, in QueryInput) (*Answer, error)
	// AnalyzeProject summarises a project from its tasks.
	AnalyzeProject(ctx context.Context, ownerID, projectID string) (*ProjectAnalysis, error)
}

type agentService struct {
	client    llm.Client
	metrics   *llm.Metrics
	projects  repository.ProjectRepository
	tasks     repository.TaskRepository
	knowledge repository.KnowledgeRepository
	logger    *slog.Logger
}

// NewAgentService constructs a new AgentService. metrics may be nil.
func NewAgentService(
	client llm.Client,
	metrics *llm.Metrics,
	projects repository.ProjectRepository,
	tasks repository.TaskRepository,
	knowledge repository.KnowledgeRepository,
	logger *slog.Logger,
) AgentService {
	return &agentService{
		client:    client,
		metrics:   metrics,
		projects:  projects,
		tasks:     tasks,
		knowledge: knowledge,
		logger:    logger,
	}
}

func (s *agentService) AnalyzeTask(ctx context.Context, in AnalyzeTaskInput) (*TaskAnalysis, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	prompt := fmt.Sprintf("Analyze the following task and provide a list of steps to complete it:\n\nTask: %s\n\nSteps:", in.Task)
	out, err := s.complete(ctx, "analyze_task", prompt)
	if err != nil {
		return nil, err
	}
	return &TaskAnalysis{Steps: splitSteps(out)}, nil
}

func (s *agentService) GenerateCode(ctx context.Context, in GenerateCodeInput) (*GeneratedCode, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	prompt := fmt.Sprintf("Generate %s code to accomplish the following task:\n\nTask: %s\n\nCode:", in.Language, in.Task)
	out, err := s.complete(ctx, "generate_code", prompt)
	if err != nil {
		return nil, err
	}
	return &GeneratedCode{Language: in.Language, Code: out}, nil
}

func (s *agentService) AnswerQuestion(ctx context.Context, in QuestionInput) (*Answer, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	prompt := fmt.Sprintf("Please answer the following question:\n\nQuestion: %s\n\nAnswer:", in.Question)
	out, err := s.complete(ctx, "answer_question", prompt)
	if err != nil {
		return nil, err
	}
	return &Answer{Answer: out}, nil
}

func (s *agentService) Query(ctx context.Context, ownerID string, in QueryInput) (*Answer, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	res, err := s.knowledge.List(ctx, ownerID, repository.KnowledgeFilter{}, repository.PageQuery{Limit: contextEntries})
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	if len(res.Items) > 0 {
		b.WriteString("Use the following notes as context:\n\n")
		for _, k := range res.Items {
			title := k.Title
			if title == "" {
				title = "Untitled"
			}
			fmt.Fprintf(&b, "- %s: %s\n", title, truncate(k.Content, contextEntryLen))
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Query: %s\n\nAnswer:", in.Query)

	out, err := s.complete(ctx, "query", b.String())
	if err != nil {
		return nil, err
	}
	return &Answer{Answer: out}, nil
}

func (s *agentService) AnalyzeProject(ctx context.Context, ownerID, projectID string) (*ProjectAnalysis, error) {
	if projectID == "" {
		return nil, ErrIDRequired
	}
	p, err := s.projects.FindByID(ctx, ownerID, projectID)
	if err != nil {
		return nil, mapNoRows(err, ErrProjectNotFound)
	}
	counts, err := s.tasks.CountByStatus(ctx, ownerID, "")
	if err != nil {
		return nil, err
	}
	byStatus, err := s.tasks.CountByStatus(ctx, ownerID, p.ID)
	if err != nil {
		return nil, err
	}
	res, err := s.tasks.List(ctx, ownerID, repository.TaskFilter{ProjectID: p.ID}, repository.PageQuery{Limit: projectTasks})
	if err != nil {
		return nil, err
	}

	projectCounts := make(map[string]int, len(model.TaskStatuses))
	for _, st := range model.TaskStatuses {
		projectCounts[st] = 0
	}
	for st, n := range byStatus {
		projectCounts[st] = n
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Analyze the following project and summarise its progress, risks and next steps.\n\nProject: %s\n", p.Name)
	if p.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", p.Description)
	}
	b.WriteString("\nTasks:\n")
	if len(res.Items) == 0 {
		b.WriteString("(none)\n")
	}
	for _, t := range res.Items {
		fmt.Fprintf(&b, "- [%s] %s\n", t.Status, t.Title)
	}
	if res.Total > len(res.Items) {
		fmt.Fprintf(&b, "(%d more not shown)\n", res.Total-len(res.Items))
	}
	fmt.Fprintf(&b, "\nThis project has %s.\n", formatCounts(byStatus))
	fmt.Fprintf(&b, "\nAcross all projects the owner has %s.\n\nAnalysis:", formatCounts(counts))

	out, err := s.complete(ctx, "analyze_project", b.String())
	if err != nil {
		return nil, err
	}
	return &ProjectAnalysis{ProjectID: p.ID, Summary: out, Tasks: projectCounts}, nil
}

// complete calls the model and maps failures to ErrLLMUnavailable.
func (s *agentService) complete(ctx context.Context, operation, prompt string) (string, error) {
	out, err := s.client.Complete(ctx, prompt)
	s.metrics.Observe(operation, err)
	if err != nil {
		s.logger.Error("llm_request_failed",
			"component", "agent",
			"operation", operation,
			"error_message", err.Error())
		return "", fmt.Errorf("%w: %v", ErrLLMUnavailable, err)
	}
	return out, nil
}

// splitSteps turns a model answer into one step per non-blank line without list markers.
func splitSteps(s string) []string {
	steps := make([]string, 0)
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(listMarker.ReplaceAllString(strings.TrimSpace(line), ""))
		if line != "" {
			steps = append(steps, line)
		}
	}
	return steps
}

func formatCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return "no tasks"
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%d %s", counts[k], k))
	}
	return strings.Join(parts, ", ") + " tasks"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
