// Package exiftool wraps the exiftool binary for the two metadata reads the
// classifier needs (CompressorID, DocType) and the in-place title/comment
// rewrite applied to files already in the target container.
package exiftool
