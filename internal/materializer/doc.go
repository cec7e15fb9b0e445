// Package materializer writes and relocates reference files: creating
// .strm references from debrid groups, copying or moving references
// into the library with content-hash idempotence, and verifying that no
// files appear out of nowhere during a run.
package materializer
