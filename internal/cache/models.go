package cache

import "time"

// Entry is a cached classification decision for a raw name.
type Entry struct {
	Name           string
	Classification string
	SourcePath     string
	DestPath       string
	CreatedAt      time.Time
}

// AIResult is a stored AI verdict for a raw name.
type AIResult struct {
	Name       string
	Label      string
	Confidence float64
	Reasoning  string
	CreatedAt  time.Time
}

// Correction is a manually recorded fix for a misclassified or
// misnamed entry. Applied tracks whether the correction has been
// forwarded to downstream learning.
type Correction struct {
	Name      string
	Original  string
	Correct   string
	Reason    string
	TMDBID    int64
	CreatedAt time.Time
	Applied   bool
}

// LearningPattern captures the shape of a corrected name so similar
// names can be routed to AI escalation in the future.
type LearningPattern struct {
	ID         int64
	Name       string
	Original   string
	Correct    string
	CodePrefix string
	NameLength int
	HasDigits  bool
	HasLetters bool
	HasSpecial bool
	CreatedAt  time.Time
}

// TrackingEntry records that a source file at a given content state has
// already been materialized.
type TrackingEntry struct {
	Key         string
	SourcePath  string
	ProcessedAt time.Time
}

// Stats summarizes the store contents for operator display.
type Stats struct {
	Classifications  int
	AIResults        int
	Corrections      int
	UnappliedCount   int
	LearningPatterns int
	TrackedFiles     int
	ByCategory       map[string]int
}
