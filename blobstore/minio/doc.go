// Package minio provides a MinIO implementation of blobstore.Store for
// S3-compatible object storage mirrors.
package minio
