// Package datasource opens pipeline inputs by location: http(s) URLs are
// fetched, anything else is read from the local filesystem.
package datasource

import (
	"context"
	"io"
	"net/http"
	"strings"

	"disasteretl/internal/datasource/file"
	"disasteretl/internal/datasource/httpds"
)

// Source yields the raw bytes of one input.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// IsURL reports whether loc names an HTTP(S) resource.
func IsURL(loc string) bool {
	l := strings.ToLower(loc)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

// For returns the Source for loc. client is used for URLs; nil means
// http.DefaultClient.
func For(loc string, client *http.Client) Source {
	if IsURL(loc) {
		return httpds.New(loc, client)
	}
	return file.NewLocal(loc)
}
