// Package nameclean normalizes raw release names into filesystem-safe
// folder and file names and extracts season/episode numbering.
//
// The primary use cases are:
//   - Sanitizing torrent display names for use as library folder names
//   - Producing clean, bounded-length reference file names
//   - Resolving season/episode markers from the many surface forms
//     releases use (S01E02, 5x09, season-only, per-title compact codes)
//
// The package has no external dependencies beyond x/text title casing
// and is safe for concurrent use; all state is package-level compiled
// patterns.
package nameclean
