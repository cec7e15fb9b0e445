package aiclassify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"organizer/internal/classification"
	"organizer/internal/logging"
	"organizer/internal/services"
)

// maxRememberedCorrections bounds the correction context carried into
// prompts; older corrections rotate out.
const maxRememberedCorrections = 10

// Classifier is the AI escalation collaborator. A Classifier without an
// API key is inert: Available reports false and Classify fails with
// ErrUnavailable.
type Classifier struct {
	api     *openai.Client
	model   string
	timeout time.Duration
	logger  *slog.Logger

	mu          sync.Mutex
	corrections []string
}

var _ classification.Escalator = (*Classifier)(nil)

// Option configures a Classifier.
type Option func(*Classifier)

// WithLogger sets the logger for escalation activity.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Classifier) { c.logger = logger }
}

// WithTimeout bounds each model consultation.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Classifier) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// New creates a Classifier. An empty apiKey yields an unavailable
// client rather than an error so callers can wire it unconditionally.
func New(apiKey, baseURL, model string, opts ...Option) *Classifier {
	c := &Classifier{
		model:   model,
		timeout: 30 * time.Second,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.NewComponentLogger(c.logger, "aiclassify")

	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return c
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
		cfg.BaseURL = baseURL
	}
	c.api = openai.NewClientWithConfig(cfg)
	return c
}

// Available reports whether the model can be consulted.
func (c *Classifier) Available() bool {
	return c != nil && c.api != nil
}

// Learn records a manual correction so future prompts carry it as
// context. Best-effort and local; never fails.
func (c *Classifier) Learn(name, original, correct string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	line := fmt.Sprintf("%q was %s, corrected to %s", name, original, correct)
	c.corrections = append(c.corrections, line)
	if len(c.corrections) > maxRememberedCorrections {
		c.corrections = c.corrections[len(c.corrections)-maxRememberedCorrections:]
	}
}

// Classify asks the model for a verdict in two steps: an adult-content
// check first, then Shows versus Movie. The fallback category is
// returned inside the verdict when the model output cannot be parsed.
func (c *Classifier) Classify(ctx context.Context, name string, fallback classification.Category) (classification.Verdict, error) {
	if !c.Available() {
		return classification.Verdict{}, services.Wrap(services.ErrUnavailable, "aiclassify", "classify", "no API key configured", nil)
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	javVerdict, err := c.checkAdultContent(ctx, name)
	if err != nil {
		return classification.Verdict{}, err
	}
	if javVerdict.Category == classification.CategoryJAV {
		return javVerdict, nil
	}

	verdict, err := c.classifyShowsOrMovie(ctx, name, fallback)
	if err != nil {
		return classification.Verdict{}, err
	}
	return verdict, nil
}

func (c *Classifier) checkAdultContent(ctx context.Context, name string) (classification.Verdict, error) {
	prompt := fmt.Sprintf(`Folder name: %q

Known corrections:
%s

Is this Japanese Adult Video (JAV) content? Look for:
- Japanese studio codes (TYOD-190, SONE-123, FC2-PPV-123456, etc.)
- Japanese adult content indicators
- Studio prefixes followed by numbers

Respond with JSON: {"is_jav": true/false, "confidence": 0.0-1.0, "reasoning": "explanation"}`,
		name, c.correctionContext())

	content, err := c.complete(ctx,
		"You are a JAV content detection expert. Your task is to identify Japanese Adult Video content based on folder names.",
		prompt, 150)
	if err != nil {
		return classification.Verdict{}, err
	}
	return parseAdultVerdict(content), nil
}

func (c *Classifier) classifyShowsOrMovie(ctx context.Context, name string, fallback classification.Category) (classification.Verdict, error) {
	prompt := fmt.Sprintf(`Folder name: %q

This is NOT JAV content. Please classify as either:
- Shows: TV series, episodes, seasons
- Movie: Films, movies, documentaries

For Shows, look for episode patterns (S01E01, Season 1), series names, episode numbers.
For Movies, look for movie titles, year indicators, film-related terms.

Respond with JSON: {"classification": "Shows|Movie", "confidence": 0.0-1.0, "reasoning": "explanation"}`, name)

	content, err := c.complete(ctx,
		"You are a media classification expert. Classify content as Shows or Movie.",
		prompt, 200)
	if err != nil {
		return classification.Verdict{}, err
	}
	return parseMediaVerdict(content, fallback), nil
}

func (c *Classifier) complete(ctx context.Context, system, user string, maxTokens int) (string, error) {
	requestStart := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0.1,
		MaxTokens:   maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	latency := time.Since(requestStart)
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "aiclassify", "chat completion",
			fmt.Sprintf("model request failed (latency=%v)", latency), err)
	}
	if len(resp.Choices) == 0 {
		return "", services.Wrap(services.ErrTransient, "aiclassify", "chat completion", "empty response", nil)
	}
	c.logger.Debug("model consulted",
		logging.String("model", c.model),
		logging.Duration("latency", latency))
	return resp.Choices[0].Message.Content, nil
}

func (c *Classifier) correctionContext() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.corrections) == 0 {
		return "(none)"
	}
	return strings.Join(c.corrections, "\n")
}
