// Package storage holds the blob store drivers behind ports.BlobStore.
package storage

import "strings"

// uploadsPath is the route uploaded files are served from.
const uploadsPath = "/api/uploads/"

// PublicURL joins the public base URL and the served path of name.
func PublicURL(baseURL, name string) string {
	return strings.TrimRight(baseURL, "/") + uploadsPath + name
}
