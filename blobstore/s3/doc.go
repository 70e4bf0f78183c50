// Package s3 provides an AWS S3 implementation of blobstore.Store.
//
// The ingest pipeline publishes each snapshot version to a backup
// object-storage mirror alongside the primary CDN; this store serves the
// secondary tier of the fallback chain against that mirror.
package s3
