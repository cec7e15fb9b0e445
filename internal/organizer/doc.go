// Package organizer moves classified source folders into the canonical
// library tree.
//
// It resolves metadata to derive filesystem targets, builds
// category-specific folder and file names (code folders for adult
// content, season trees for shows, title-year folders for movies), and
// copies reference files with content-hash idempotence. Destination
// paths are recorded back into the cache so later corrections can find
// and rename what was produced.
package organizer
