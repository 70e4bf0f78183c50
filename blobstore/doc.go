// Package blobstore abstracts access to the object-storage mirrors that
// hold published dataset snapshots.
//
// A snapshot file is small (a few MB compressed) and immutable once
// published, so the interface is whole-object: Get returns the complete
// payload or blobstore.ErrNotFound. The s3 and minio subpackages provide
// backends for the secondary mirror tier of the fallback chain; the
// in-package MemoryStore backs tests.
package blobstore
