// Package corrections records operator overrides for misclassified
// names, derives learning patterns that widen AI escalation, and
// applies metadata fixes to already-materialized library folders.
package corrections
