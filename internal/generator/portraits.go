package generator

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/myrjola/gumshoe/internal/models"
	"github.com/sashabaranov/go-openai"
)

// Portraits renders suspect portraits with DALL-E and caches the resulting
// reference per case and suspect, so each portrait is generated at most once
// per game state. Only the reference is kept, never the asset itself.
type Portraits struct {
	client *openai.Client
	logger *slog.Logger

	mu    sync.Mutex
	cache map[string]string
}

func NewPortraits(cfg OpenAIConfig, logger *slog.Logger) *Portraits {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return &Portraits{
		client: openai.NewClientWithConfig(clientConfig),
		logger: logger.With("source", "generator.Portraits"),
		cache:  map[string]string{},
	}
}

// Portrait returns a portrait URL for the suspect, generating it on first use.
func (p *Portraits) Portrait(ctx context.Context, caseTitle string, suspect models.Suspect) (string, error) {
	key := caseTitle + "\x00" + suspect.Name

	p.mu.Lock()
	if url, ok := p.cache[key]; ok {
		p.mu.Unlock()
		return url, nil
	}
	p.mu.Unlock()

	response, err := p.client.CreateImage(ctx, openai.ImageRequest{ //nolint:exhaustruct // this is better for readability
		Model:          openai.CreateImageModelDallE3,
		Prompt:         portraitPrompt(suspect),
		Size:           openai.CreateImageSize1024x1024,
		ResponseFormat: openai.CreateImageResponseFormatURL,
		N:              1,
	})
	if err != nil {
		return "", generationError(err, "create portrait image", slog.String("suspect", suspect.Name))
	}
	if len(response.Data) == 0 || response.Data[0].URL == "" {
		return "", generationError(nil, "no portrait image in response", slog.String("suspect", suspect.Name))
	}

	url := response.Data[0].URL
	p.mu.Lock()
	p.cache[key] = url
	p.mu.Unlock()
	return url, nil
}

func portraitPrompt(suspect models.Suspect) string {
	return fmt.Sprintf(
		"A moody film-noir portrait of %s, %s. Dramatic chiaroscuro lighting, 1940s detective film still, head and shoulders.",
		suspect.Name, suspect.Description)
}
