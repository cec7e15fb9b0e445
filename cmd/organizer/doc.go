// Package main hosts the organizer CLI entrypoint and command graph.
//
// The Cobra-based command tree covers the daemon loop, one-shot scans,
// correction management, cache maintenance, and configuration
// scaffolding. It centralizes configuration resolution and store access
// so subcommands can focus on user experience instead of wiring.
package main
