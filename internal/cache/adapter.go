package cache

import (
	"context"

	"organizer/internal/classification"
)

// ClassifierCache adapts the store to the classification engine's
// result-cache contract.
type ClassifierCache struct {
	store *Store
}

// NewClassifierCache wraps the store for use by the classifier.
func NewClassifierCache(store *Store) *ClassifierCache {
	return &ClassifierCache{store: store}
}

func (c *ClassifierCache) Classification(ctx context.Context, name string) (classification.Category, bool, error) {
	entry, err := c.store.Entry(ctx, name)
	if err != nil {
		return "", false, err
	}
	if entry == nil {
		return "", false, nil
	}
	return classification.ParseCategory(entry.Classification), true, nil
}

func (c *ClassifierCache) SaveClassification(ctx context.Context, name, sourcePath string, category classification.Category) error {
	return c.store.SaveEntry(ctx, Entry{
		Name:           name,
		Classification: string(category),
		SourcePath:     sourcePath,
	})
}

func (c *ClassifierCache) AIVerdict(ctx context.Context, name string) (classification.Verdict, bool, error) {
	result, err := c.store.AIResult(ctx, name)
	if err != nil {
		return classification.Verdict{}, false, err
	}
	if result == nil {
		return classification.Verdict{}, false, nil
	}
	return classification.Verdict{
		Category:   classification.ParseCategory(result.Label),
		Confidence: result.Confidence,
		Reasoning:  result.Reasoning,
	}, true, nil
}

func (c *ClassifierCache) SaveAIVerdict(ctx context.Context, name string, verdict classification.Verdict) error {
	return c.store.SaveAIResult(ctx, AIResult{
		Name:       name,
		Label:      string(verdict.Category),
		Confidence: verdict.Confidence,
		Reasoning:  verdict.Reasoning,
	})
}
