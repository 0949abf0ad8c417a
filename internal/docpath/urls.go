package docpath

import (
	"net/url"
	"strings"
)

// URLBuilder renders the public URLs through which a document can be reached.
type URLBuilder struct {
	base string
}

// NewURLBuilder creates a URLBuilder for the given public base URL. A trailing
// "/api" segment is dropped so either the site root or the API root may be passed.
func NewURLBuilder(base string) URLBuilder {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	base = strings.TrimSuffix(base, "/api")
	return URLBuilder{base: base}
}

// Base returns the site root the builder was configured with.
func (b URLBuilder) Base() string {
	return b.base
}

// Direct is the static-file URL of a reference. External URLs pass through.
func (b URLBuilder) Direct(ref string) string {
	n := Normalize(ref)
	if n == "" || isAbsoluteURL(n) {
		return n
	}
	return b.base + n
}

// API is the authenticated inline-view URL of a located document.
func (b URLBuilder) API(loc Location) string {
	return b.base + "/api/clients/" + url.PathEscape(loc.ClientID) + "/documents/" + url.PathEscape(loc.Filename)
}

// Download is the authenticated attachment URL of a located document.
func (b URLBuilder) Download(loc Location) string {
	return b.API(loc) + "/download"
}

// WithToken appends an access token query parameter to u.
func WithToken(u, token string) string {
	if token == "" {
		return u
	}
	sep := "?"
	if strings.Contains(u, "?") {
		sep = "&"
	}
	return u + sep + "token=" + url.QueryEscape(token)
}
