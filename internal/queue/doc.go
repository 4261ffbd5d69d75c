// Package queue persists discovered video files and their transcode status
// in SQLite.
//
// The Store manages the database connection, schema provisioning, batch and
// retry selection, status transitions, and the aggregate counts consumed by
// the reporter. Rows are never deleted; the table doubles as an audit trail
// of every file the scanner has seen.
//
// Treat this package as the single source of truth for queue semantics.
// Schema changes bump schemaVersion in schema.go, and operators delete the
// database to adopt the new schema.
package queue
