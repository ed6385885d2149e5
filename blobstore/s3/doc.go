// Package s3 provides an Amazon S3 implementation of blobstore.Store.
//
//	store, err := s3.New(ctx, "bench-artifacts",
//	    s3.WithPrefix("arraybench/"),
//	    s3.WithRegion("eu-central-1"),
//	)
//
// Uploads go through the SDK's multipart upload manager, so large codec
// outputs are sent in parallel parts. Reads use ranged GETs.
package s3
