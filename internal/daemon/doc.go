// Package daemon wires the organizer's components together and runs
// the long-lived process: it builds the cache store, classifier, and
// service clients from configuration, enforces single-instance
// operation with a file lock, and hands control to the orchestrator.
package daemon
