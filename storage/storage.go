package storage

import (
	"context"
	"net/url"
)

// Presigner issues short-lived, capability-bearing URLs for client-direct
// uploads and downloads against external object storage.
type Presigner interface {
	// PresignUpload mints a single-object write URL for the derived key
	// and returns both
	PresignUpload(ctx context.Context, fileName, contentType string) (uploadURL, objectKey string, err error)

	// PresignDownload mints a read URL for an existing object key
	PresignDownload(ctx context.Context, objectKey string) (string, error)
}

// ObjectKey derives the storage key for an uploaded file. The key depends
// on the file name alone: uploading the same name twice overwrites the
// previous object, which is accepted behavior.
func ObjectKey(fileName string) string {
	return "uploads/" + url.QueryEscape(fileName)
}
