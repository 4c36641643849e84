// Package s3 provides a small client for storing the outputs record in an
// S3 bucket or an S3-compatible object store.
//
// Credentials come from the SDK's default chain unless a static access key
// pair is given. A custom endpoint switches the client to path-style
// addressing, which most S3-compatible stores expect.
package s3
