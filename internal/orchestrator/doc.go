// Package orchestrator drives full organization runs: fetching debrid
// listings, materializing references into the source tree, classifying
// every source folder, and filing each into the library. A non-blocking
// run lock guarantees at most one active run; triggers arriving while a
// run is active are dropped. Trigger sources are startup, a debounced
// filesystem watcher, and a periodic fallback ticker.
package orchestrator
