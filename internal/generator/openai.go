package generator

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/myrjola/gumshoe/internal/errors"
	"github.com/myrjola/gumshoe/internal/models"
	"github.com/myrjola/gumshoe/internal/session"
	"github.com/sashabaranov/go-openai"
)

const maxTokens = 4096

// OpenAIConfig configures the OpenAI-backed generator.
type OpenAIConfig struct {
	APIKey string
	// BaseURL overrides the API endpoint. Used for tests and proxies.
	BaseURL string
	// Model defaults to gpt-3.5-turbo-1106, the cheapest model with JSON mode.
	Model string
}

// OpenAI generates cases through OpenAI chat completions in JSON mode.
type OpenAI struct {
	client *openai.Client
	model  string
	logger *slog.Logger
}

var _ session.Generator = (*OpenAI)(nil)

func NewOpenAI(cfg OpenAIConfig, logger *slog.Logger) *OpenAI {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = openai.GPT3Dot5Turbo1106
	}
	return &OpenAI{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
		logger: logger.With("source", "generator.OpenAI"),
	}
}

func (g *OpenAI) GenerateCase(ctx context.Context, difficulty models.Difficulty) (*models.Case, error) {
	raw, err := g.completeJSON(ctx, caseSystemPrompt, casePrompt(difficulty))
	if err != nil {
		return nil, err
	}
	return parseCase(raw)
}

func (g *OpenAI) Investigate(
	ctx context.Context,
	c *models.Case,
	action string,
	difficulty models.Difficulty,
) (models.Finding, error) {
	raw, err := g.completeJSON(ctx, investigateSystemPrompt, investigatePrompt(c, action, difficulty))
	if err != nil {
		return models.Finding{}, err
	}
	return parseFinding(raw)
}

func (g *OpenAI) Hint(
	ctx context.Context,
	c *models.Case,
	difficulty models.Difficulty,
	onDelta func(string),
) (string, error) {
	request := openai.ChatCompletionRequest{ //nolint:exhaustruct // this is better for readability
		Model:     g.model,
		MaxTokens: maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: hintSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: hintPrompt(c, difficulty)},
		},
	}
	if onDelta == nil {
		completion, err := g.client.CreateChatCompletion(ctx, request)
		if err != nil {
			return "", generationError(err, "create hint completion")
		}
		if len(completion.Choices) == 0 {
			return "", generationError(nil, "no hint completion choices")
		}
		return completion.Choices[0].Message.Content, nil
	}

	stream, err := g.client.CreateChatCompletionStream(ctx, request)
	if err != nil {
		return "", generationError(err, "create hint completion stream")
	}
	defer func() {
		if closeErr := stream.Close(); closeErr != nil {
			g.logger.Warn("close hint stream", errors.SlogError(closeErr))
		}
	}()

	var hint strings.Builder
	for {
		response, recvErr := stream.Recv()
		if errors.Is(recvErr, io.EOF) {
			break
		}
		if recvErr != nil {
			return "", generationError(recvErr, "receive hint stream chunk")
		}
		if len(response.Choices) == 0 {
			continue
		}
		delta := response.Choices[0].Delta.Content
		if delta == "" {
			continue
		}
		hint.WriteString(delta)
		onDelta(delta)
	}
	if hint.Len() == 0 {
		return "", generationError(nil, "empty hint stream")
	}
	return hint.String(), nil
}

func (g *OpenAI) Resolve(ctx context.Context, c *models.Case, accusedName string) (models.Resolution, error) {
	// Correctness comes from the case record; the model only narrates it.
	correct := accusedName == c.Culprit
	raw, err := g.completeJSON(ctx, resolveSystemPrompt, resolvePrompt(c, accusedName, correct))
	if err != nil {
		return models.Resolution{}, err
	}
	narrative, err := parseResolution(raw)
	if err != nil {
		return models.Resolution{}, err
	}
	return models.Resolution{Correct: correct, Narrative: narrative}, nil
}

func (g *OpenAI) completeJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	completion, err := g.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{ //nolint:exhaustruct // this is better for readability
			Model:     g.model,
			MaxTokens: maxTokens,
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: userPrompt},
			},
		},
	)
	if err != nil {
		return "", generationError(err, "create chat completion")
	}
	if len(completion.Choices) == 0 {
		return "", generationError(nil, "no completion choices")
	}
	return completion.Choices[0].Message.Content, nil
}
