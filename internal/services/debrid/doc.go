// Package debrid provides a Real-Debrid REST client: torrent and
// download listings, magnet submission, link unrestriction, and a
// polling wait for torrent readiness. The organizer treats the service
// as a read-mostly source of torrent metadata and unrestricted links.
package debrid
