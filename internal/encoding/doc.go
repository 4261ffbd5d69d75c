// Package encoding defines the transcoding engine boundary and its ffmpeg
// implementation.
//
// The engine contract is deliberately narrow: one blocking call per file
// with a typed progress stream, so the transcoder state machine and its
// tests can substitute fakes without touching a real subprocess.
package encoding
