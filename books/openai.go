package books

import (
	"context"
	"encoding/json"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/sashabaranov/go-openai"
)

const summarizerSystemPrompt = `You are a book summarization assistant.
Given a book title and author, respond with a JSON object:
{"summary": "...", "flashcards": [{"question": "...", "answer": "..."}]}
The summary should cover the book's core ideas in a few paragraphs.
Produce exactly 5 flashcards testing the key takeaways.
Respond with JSON only, no surrounding prose.`

// SummarizerConfig configures the OpenAI-backed Summarizer
type SummarizerConfig struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
}

// OpenAISummarizer produces summaries through the chat completion API
type OpenAISummarizer struct {
	client    *openai.Client
	model     string
	maxTokens int
}

var _ Summarizer = (*OpenAISummarizer)(nil)

func NewOpenAISummarizer(cfg SummarizerConfig) (*OpenAISummarizer, error) {
	if cfg.APIKey == "" {
		return nil, goerrors.New("missing OpenAI API key", goerrors.CategoryBadInput)
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 2000
	}

	return &OpenAISummarizer{
		client:    openai.NewClientWithConfig(clientConfig),
		model:     model,
		maxTokens: maxTokens,
	}, nil
}

func (s *OpenAISummarizer) Summarize(ctx context.Context, bookName, authorName string) (*SummaryResult, error) {
	prompt := "Book: " + bookName
	if authorName != "" {
		prompt += "\nAuthor: " + authorName
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     s.model,
		MaxTokens: s.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: summarizerSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "chat completion failed")
	}

	if len(resp.Choices) == 0 {
		return nil, goerrors.New("chat completion returned no choices", goerrors.CategoryOperation)
	}

	return parseSummaryContent(resp.Choices[0].Message.Content)
}

// parseSummaryContent decodes the model's JSON reply, tolerating markdown
// code fences some models wrap their output in.
func parseSummaryContent(content string) (*SummaryResult, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var payload struct {
		Summary    string           `json:"summary"`
		Flashcards []FlashcardDraft `json:"flashcards"`
	}

	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "could not parse summarizer reply")
	}

	if payload.Summary == "" {
		return nil, goerrors.New("summarizer reply missing summary", goerrors.CategoryOperation)
	}

	return &SummaryResult{
		Summary:    payload.Summary,
		Flashcards: payload.Flashcards,
	}, nil
}
