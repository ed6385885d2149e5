// Package blobstore abstracts where benchmark artifacts are published.
//
// A Store holds immutable named blobs. The local and in-memory stores live
// here; S3 and MinIO stores live in the s3 and minio subpackages.
package blobstore
