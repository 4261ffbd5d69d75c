// Package transcoder drives queued files through the per-file state
// machine: queued → active → done|failed.
//
// An entry is persisted as active immediately before the engine call so a
// crash mid-transcode leaves durable evidence, and resolved to done or
// failed before the next file starts. Engine failures clean up any partial
// output and continue the run; only disposition failures (deleting or
// replacing the original after success) abort it. Container-specific
// output naming and disposition live behind the Profile abstraction.
package transcoder
