// Package outputs persists the identifiers produced by a successful apply.
//
// A Record is written as YAML to a local file, an S3 object, or both. The
// database password is never part of a Record.
package outputs
