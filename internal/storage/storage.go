// Package storage holds the object store adapters used to host recipe images.
package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// DownloadTokenKey is the object metadata key Firebase Storage reads download tokens from.
const DownloadTokenKey = "firebaseStorageDownloadTokens"

// Object is a blob to be written under Path.
type Object struct {
	Path        string
	ContentType string
	Data        []byte
	Metadata    map[string]string
}

// ObjectStore stores blobs and hands back the URL they are reachable at.
type ObjectStore interface {
	Put(ctx context.Context, obj Object) (string, error)
	Delete(ctx context.Context, path string) error
}

// DownloadURL builds the token-authorised Firebase download URL for path.
func DownloadURL(host, bucket, path, token string) string {
	host = strings.TrimRight(strings.TrimPrefix(strings.TrimPrefix(host, "https://"), "http://"), "/")
	u := fmt.Sprintf("https://%s/v0/b/%s/o/%s?alt=media", host, bucket, url.PathEscape(path))
	if token != "" {
		u += "&token=" + url.QueryEscape(token)
	}
	return u
}

// ContentTypeForName guesses an image content type from a file name.
func ContentTypeForName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	switch {
	case strings.HasSuffix(s, ".png"):
		return "image/png"
	case strings.HasSuffix(s, ".jpg"), strings.HasSuffix(s, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(s, ".webp"):
		return "image/webp"
	case strings.HasSuffix(s, ".gif"):
		return "image/gif"
	case strings.HasSuffix(s, ".svg"):
		return "image/svg+xml"
	default:
		return "application/octet-stream"
	}
}
