package classifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/xivtools/nosol/internal/chat"
	"github.com/xivtools/nosol/internal/platform/observability"
)

const (
	defaultModel = openai.GPT4oMini
	burstSize    = 5
)

// Options configures the OpenAI-backed classifier.
type Options struct {
	APIKey  string
	BaseURL string
	Model   string
	// RPS bounds classification calls; they sit on the event-delivery
	// critical path.
	RPS int
}

type openaiClassifier struct {
	client  *openai.Client
	model   string
	limiter *rate.Limiter
	logger  *zerolog.Logger
}

// New returns the production classifier, or Unavailable when no API key is
// configured.
func New(opts Options, logger *zerolog.Logger) Classifier {
	if opts.APIKey == "" || opts.APIKey == "mock" {
		logger.Info().Msg("no classifier API key configured, classification disabled")

		return Unavailable{}
	}

	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}

	model := opts.Model
	if model == "" {
		model = defaultModel
	}

	rps := opts.RPS
	if rps <= 0 {
		rps = 1
	}

	return &openaiClassifier{
		client:  openai.NewClientWithConfig(cfg),
		model:   model,
		limiter: rate.NewLimiter(rate.Limit(float64(rps)), burstSize),
		logger:  logger,
	}
}

func (c *openaiClassifier) Classify(ctx context.Context, channel chat.Channel, text string) (Category, string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", "", fmt.Errorf("rate limiter error: %w", err)
	}

	timer := observability.StartClassifierTimer(c.model)
	defer timer.ObserveDuration()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0,
		MaxTokens:   8,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: c.systemPrompt(),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf("Channel: %s\nMessage: %s", channel, text),
			},
		},
	})
	if err != nil {
		return "", "", fmt.Errorf("openai chat completion error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", "", fmt.Errorf("openai returned no choices")
	}

	label := strings.ToLower(strings.TrimSpace(resp.Choices[0].Message.Content))

	cat, ok := ParseCategory(label)
	if !ok {
		c.logger.Debug().Str("label", label).Msg("classifier returned unknown label, treating as normal")

		cat = CategoryNormal
	}

	return cat, c.model, nil
}

func (c *openaiClassifier) systemPrompt() string {
	labels := make([]string, 0, len(Categories()))
	for _, cat := range Categories() {
		labels = append(labels, string(cat))
	}

	return fmt.Sprintf(
		"You label short messages from an online game for unsolicited commercial or service spam. "+
			"Reply with exactly one label from this list and nothing else: %s. "+
			"Use normal for anything that is not solicitation.",
		strings.Join(labels, ", "))
}
