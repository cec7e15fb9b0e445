package classification

import (
	"context"
	"log/slog"
	"regexp"

	"organizer/internal/logging"
	"organizer/internal/services"
)

// Verdict is an AI collaborator's answer for a single name.
type Verdict struct {
	Category   Category
	Confidence float64
	Reasoning  string
}

// ResultCache persists classification decisions and AI verdicts between
// runs. Implemented by the cache store.
type ResultCache interface {
	Classification(ctx context.Context, name string) (Category, bool, error)
	SaveClassification(ctx context.Context, name, sourcePath string, category Category) error
	AIVerdict(ctx context.Context, name string) (Verdict, bool, error)
	SaveAIVerdict(ctx context.Context, name string, verdict Verdict) error
}

// Escalator consults an external model for names the heuristics cannot
// settle. Implemented by the AI classification client.
type Escalator interface {
	Available() bool
	Classify(ctx context.Context, name string, fallback Category) (Verdict, error)
}

// PatternMatcher widens escalation using patterns learned from manual
// corrections. Matching is advisory; it never assigns a label directly.
type PatternMatcher interface {
	Matches(ctx context.Context, name string) bool
}

// suspiciousPatterns mark names that mix code-like alphanumerics in ways
// the rule-based detectors may have missed; such names are worth an AI
// opinion before defaulting to Movie.
var suspiciousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)[A-Z0-9]{2,6}[-_]\d{3,7}`),
	regexp.MustCompile(`(?i)fc2[-_]?ppv`),
	regexp.MustCompile(`(?i)\d{3,7}[A-Z]{1,3}`),
	regexp.MustCompile(`(?i)[A-Z]{2,6}\d{3,7}`),
	regexp.MustCompile(`(?i)[A-Z]{2,6}\s+\d{3,7}`),
}

// Classifier runs the ordered decision pipeline. The zero value is not
// usable; construct with New.
type Classifier struct {
	cache     ResultCache
	escalator Escalator
	patterns  PatternMatcher
	threshold float64
	logger    *slog.Logger
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithEscalator attaches an AI collaborator for difficult names.
func WithEscalator(e Escalator) Option {
	return func(c *Classifier) { c.escalator = e }
}

// WithPatternMatcher attaches learned-correction pattern matching.
func WithPatternMatcher(m PatternMatcher) Option {
	return func(c *Classifier) { c.patterns = m }
}

// WithThreshold overrides the confidence needed for an AI verdict to
// replace the rule-based label.
func WithThreshold(threshold float64) Option {
	return func(c *Classifier) { c.threshold = threshold }
}

// WithLogger sets the logger used for pipeline decisions.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Classifier) { c.logger = logger }
}

// New builds a Classifier backed by the given result cache.
func New(cache ResultCache, opts ...Option) *Classifier {
	c := &Classifier{
		cache:     cache,
		threshold: 0.7,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.NewComponentLogger(c.logger, "classifier")
	return c
}

// Classify resolves the category for a raw name. The pipeline is
// strictly ordered and first match wins: cached result, spam filter,
// adult-code detector, TV detector, Movie default with optional AI
// escalation. Every terminal branch caches exactly one result, so the
// outcome is stable across runs. AI failures are logged and never
// propagate; the rule-based label stands.
func (c *Classifier) Classify(ctx context.Context, name, sourcePath string) (Category, error) {
	cached, ok, err := c.cache.Classification(ctx, name)
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "classifier", "cache lookup", "reading cached classification", err)
	}
	if ok {
		c.logger.Debug("cache hit", logging.String("name", name), logging.String("category", string(cached)))
		return cached, nil
	}

	if IsSpam(name) {
		c.logger.Warn("spam detected", logging.String("name", name))
		return c.finish(ctx, name, sourcePath, CategorySkip)
	}
	if IsJAV(name) {
		return c.finish(ctx, name, sourcePath, CategoryJAV)
	}
	if IsTVShow(name) {
		return c.finish(ctx, name, sourcePath, CategoryShows)
	}

	category := CategoryMovie
	if c.shouldEscalate(ctx, name) {
		if verdict, ok := c.escalate(ctx, name, category); ok && verdict.Confidence >= c.threshold {
			c.logger.Info("ai override",
				logging.String("name", name),
				logging.String("category", string(verdict.Category)),
				logging.Float64("confidence", verdict.Confidence))
			category = verdict.Category
		}
	}
	return c.finish(ctx, name, sourcePath, category)
}

func (c *Classifier) finish(ctx context.Context, name, sourcePath string, category Category) (Category, error) {
	if err := c.cache.SaveClassification(ctx, name, sourcePath, category); err != nil {
		return "", services.Wrap(services.ErrTransient, "classifier", "cache store", "saving classification", err)
	}
	return category, nil
}

// shouldEscalate decides whether a name is difficult enough to consult
// the AI collaborator. Learned correction patterns widen the check.
func (c *Classifier) shouldEscalate(ctx context.Context, name string) bool {
	if c.escalator == nil || !c.escalator.Available() {
		return false
	}
	if c.patterns != nil && c.patterns.Matches(ctx, name) {
		return true
	}
	for _, pattern := range suspiciousPatterns {
		if pattern.MatchString(name) {
			return true
		}
	}
	return false
}

// escalate serves the AI verdict from its cache when possible; a fresh
// consultation writes its verdict back. Failures degrade to no verdict.
func (c *Classifier) escalate(ctx context.Context, name string, fallback Category) (Verdict, bool) {
	if verdict, ok, err := c.cache.AIVerdict(ctx, name); err == nil && ok {
		return verdict, true
	} else if err != nil {
		c.logger.Warn("ai verdict cache read failed", logging.String("name", name), logging.Error(err))
	}

	verdict, err := c.escalator.Classify(ctx, name, fallback)
	if err != nil {
		c.logger.Warn("ai escalation failed", logging.String("name", name), logging.Error(err))
		return Verdict{}, false
	}
	if !verdict.Category.Valid() {
		verdict.Category = fallback
	}
	if err := c.cache.SaveAIVerdict(ctx, name, verdict); err != nil {
		c.logger.Warn("ai verdict cache write failed", logging.String("name", name), logging.Error(err))
	}
	return verdict, true
}
