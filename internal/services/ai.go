package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"github.com/yukikurage/officedesk/internal/constants"
	"github.com/yukikurage/officedesk/internal/models"
)

var (
	ErrAIDisabled    = errors.New("AI task drafting is not configured")
	ErrAIUnavailable = errors.New("AI service temporarily unavailable")
	ErrTextRequired  = errors.New("text is required")
)

// chatCompleter is the part of the OpenAI client the drafting service uses.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type AIService struct {
	client  chatCompleter
	breaker *gobreaker.CircuitBreaker
	now     func() time.Time
	log     logrus.FieldLogger
}

// GeneratedTask is a draft suggestion. Nothing is stored until an
// administrator creates a task from it.
type GeneratedTask struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Priority    models.TaskPriority `json:"priority"`
	DueDate     *time.Time          `json:"dueDate"`
}

// NewAIService returns a drafting service. With an empty apiKey every call
// fails with ErrAIDisabled.
func NewAIService(apiKey string, log logrus.FieldLogger) *AIService {
	var client chatCompleter
	if apiKey != "" {
		client = openai.NewClient(apiKey)
	}
	return newAIService(client, log)
}

func newAIService(client chatCompleter, log logrus.FieldLogger) *AIService {
	return &AIService{
		client: client,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "openai-cb",
			MaxRequests: 1,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures > 3
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.WithFields(logrus.Fields{
					"breaker": name,
					"from":    from.String(),
					"to":      to.String(),
				}).Warn("Circuit breaker state changed")
			},
		}),
		now: time.Now,
		log: log,
	}
}

func (s *AIService) Enabled() bool {
	return s.client != nil
}

const draftPrompt = `You draft work items for an accounting and advisory firm's back office.
Extract concrete tasks from the text below.

Current time: %s

Text:
%s

Reply with a JSON array only, no prose:
[
  {
    "title": "short task title",
    "description": "what has to be done",
    "priority": "low | medium | high | urgent",
    "dueDate": "RFC3339 timestamp, or null when the text gives no deadline"
  }
]
Turn relative deadlines ("tomorrow", "next Friday") into absolute timestamps.
Return [] when the text contains no task.`

// GenerateTasksFromText asks OpenAI for draft tasks described by text.
func (s *AIService) GenerateTasksFromText(ctx context.Context, text string) ([]GeneratedTask, error) {
	if s.client == nil {
		return nil, ErrAIDisabled
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrTextRequired
	}

	prompt := fmt.Sprintf(draftPrompt, s.now().Format(time.RFC3339), text)
	result, err := s.breaker.Execute(func() (interface{}, error) {
		return s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: openai.GPT4o,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
			Temperature: 0.3,
		})
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, ErrAIUnavailable
	}
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	resp := result.(openai.ChatCompletionResponse)
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}
	return parseDrafts(resp.Choices[0].Message.Content)
}

func parseDrafts(content string) ([]GeneratedTask, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var drafts []GeneratedTask
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &drafts); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w", err)
	}

	out := make([]GeneratedTask, 0, len(drafts))
	for _, d := range drafts {
		d.Title = strings.TrimSpace(d.Title)
		if d.Title == "" {
			continue
		}
		if !d.Priority.Valid() {
			d.Priority = models.PriorityMedium
		}
		out = append(out, d)
		if len(out) == constants.MaxAIGeneratedTasks {
			break
		}
	}
	return out, nil
}
