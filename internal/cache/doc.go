// Package cache persists the organizer's decision state in SQLite:
// classification results, AI verdicts, manual corrections with their
// learned patterns, and per-file processing tracking. All state shares
// one database file so a single retention pass can age everything out
// together.
package cache
