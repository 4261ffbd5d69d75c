// Package config loads and validates the TOML configuration that drives the
// recode pipeline.
//
// Run controls that the original deployment read from the environment
// (RECODE_BATCH, RECODE_DELETE) are surfaced here as explicit fields so the
// scanner, store, and transcoder receive one injected structure instead of
// consulting process state ad hoc. Batch resolution is deliberately
// fail-open: a malformed batch value logs an error and selects unlimited
// rather than aborting the run.
package config
