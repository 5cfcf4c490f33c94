// Package objstore abstracts the key-value object storage manifests are
// persisted to.
//
// A Store holds whole, immutable objects addressed by string keys. The
// manifest layer writes an object once and never updates it in place, so
// the interface is deliberately small: Put, Get, Delete, Exists, List.
//
// Backends:
//   - Memory: process-local map, for tests and ephemeral use
//   - Local: one file per object under a root directory
//   - objstore/s3: AWS S3 via aws-sdk-go-v2
//   - objstore/minio: MinIO and other S3-compatible services via minio-go
//   - Throttle: rate-limiting decorator over any Store
//
// Missing keys are reported as errors satisfying
// errors.Is(err, errs.ErrObjectNotFound) from every backend.
package objstore
