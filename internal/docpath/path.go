// Package docpath maps the document references stored on client records to
// storage keys and URLs.
//
// References accumulated several shapes over time: canonical
// "/uploads/documents/<client>/<file>" paths, paths missing the "/uploads"
// prefix, files left in "temp-<uuid>" directories by uploads made before the
// client existed, bare filenames and absolute URLs. Normalize and Parse turn
// any of these into a Location; Resolver finds where the bytes actually live.
package docpath

import (
	"errors"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

const (
	// UploadsPrefix is the public path under which stored objects are served.
	UploadsPrefix = "/uploads"
	// DocumentsDir is the storage directory holding all client documents.
	DocumentsDir = "documents"
	// TempPrefix marks directories of documents uploaded before their client existed.
	TempPrefix = "temp-"

	unknownFile = "unknown-file"
)

var (
	ErrEmptyRef    = errors.New("empty document reference")
	ErrUnparseable = errors.New("document reference does not match any known layout")
	ErrNotLocal    = errors.New("document reference does not point into uploads")
)

var (
	tempPattern     = regexp.MustCompile(`(?i)/uploads/documents/(temp-[a-f0-9-]+)/([^/]+)$`)
	standardPattern = regexp.MustCompile(`/uploads/documents/([^/]+)/([^/]+)$`)
	directPattern   = regexp.MustCompile(`/documents/([^/]+)/([^/]+)$`)
	rootPattern     = regexp.MustCompile(`/uploads/documents/([^/]+)$`)
	tempDirPattern  = regexp.MustCompile(`(?i)^temp-[a-f0-9-]+$`)
)

// Pattern names the reference layout a Location was parsed from.
type Pattern string

const (
	PatternTemp     Pattern = "temp"
	PatternStandard Pattern = "standard"
	PatternDirect   Pattern = "direct"
	PatternRoot     Pattern = "root"
	PatternFallback Pattern = "fallback"
)

// Location is the client directory and filename a reference points at.
type Location struct {
	ClientID string  `json:"clientId"`
	Filename string  `json:"filename"`
	Pattern  Pattern `json:"pattern"`
}

// IsTemp reports whether the location is a pre-creation upload directory.
func (l Location) IsTemp() bool {
	return IsTempDir(l.ClientID)
}

// IsTempDir reports whether a client directory name is a temp upload directory.
func IsTempDir(dir string) bool {
	return strings.HasPrefix(strings.ToLower(dir), TempPrefix)
}

// ValidTempDir reports whether dir is a well-formed temp upload directory name.
func ValidTempDir(dir string) bool {
	return tempDirPattern.MatchString(dir)
}

func isAbsoluteURL(ref string) bool {
	lower := strings.ToLower(ref)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// IsExternal reports whether ref is an absolute URL that does not point into uploads.
func IsExternal(ref string) bool {
	ref = strings.TrimSpace(ref)
	if !isAbsoluteURL(ref) {
		return false
	}
	u, err := url.Parse(ref)
	if err != nil {
		return true
	}
	_, ok := uploadsPath(u.Path)
	return !ok
}

// uploadsPath returns p from its first "/uploads/" segment on, so paths behind
// a proxy prefix such as "/api/uploads/..." map to the same file.
func uploadsPath(p string) (string, bool) {
	i := strings.Index(p, UploadsPrefix+"/")
	if i < 0 {
		return p, false
	}
	return p[i:], true
}

// Normalize rewrites a stored reference into its canonical "/uploads/..." form.
// External URLs are returned trimmed but otherwise untouched.
func Normalize(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	if isAbsoluteURL(ref) {
		u, err := url.Parse(ref)
		if err != nil {
			return ref
		}
		p, ok := uploadsPath(u.Path)
		if !ok {
			return ref
		}
		ref = p
	}
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		ref = ref[:i]
	}

	ref = strings.ReplaceAll(ref, `\`, "/")
	if !strings.HasPrefix(ref, "/") {
		ref = "/" + ref
	}

	switch {
	case strings.Contains(ref, UploadsPrefix+"/"):
		ref, _ = uploadsPath(ref)
	case strings.Contains(ref, "/"+DocumentsDir+"/"):
		ref = UploadsPrefix + ref
	case strings.Contains(ref, TempPrefix):
		ref = UploadsPrefix + "/" + DocumentsDir + ref
	}
	return path.Clean(ref)
}

// Parse extracts the client directory and filename from ref. When the
// reference carries no client directory, fallbackClientID is used.
func Parse(ref, fallbackClientID string) (Location, error) {
	n := Normalize(ref)
	if n == "" {
		return Location{}, ErrEmptyRef
	}
	if isAbsoluteURL(n) {
		if u, err := url.Parse(n); err == nil {
			n = u.Path
		}
	}

	if m := tempPattern.FindStringSubmatch(n); m != nil {
		return Location{ClientID: m[1], Filename: m[2], Pattern: PatternTemp}, nil
	}
	if m := standardPattern.FindStringSubmatch(n); m != nil {
		return Location{ClientID: m[1], Filename: m[2], Pattern: PatternStandard}, nil
	}
	if m := directPattern.FindStringSubmatch(n); m != nil {
		return Location{ClientID: m[1], Filename: m[2], Pattern: PatternDirect}, nil
	}
	if fallbackClientID == "" {
		return Location{}, ErrUnparseable
	}
	if m := rootPattern.FindStringSubmatch(n); m != nil {
		return Location{ClientID: fallbackClientID, Filename: m[1], Pattern: PatternRoot}, nil
	}
	if i := strings.LastIndex(n, "/"); i >= 0 && i < len(n)-1 {
		return Location{ClientID: fallbackClientID, Filename: n[i+1:], Pattern: PatternFallback}, nil
	}
	return Location{}, ErrUnparseable
}

// FileName returns the last path segment of ref.
func FileName(ref string) string {
	ref = strings.TrimSpace(ref)
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		ref = ref[:i]
	}
	ref = strings.TrimRight(strings.ReplaceAll(ref, `\`, "/"), "/")
	if i := strings.LastIndex(ref, "/"); i >= 0 {
		ref = ref[i+1:]
	}
	if ref == "" {
		return unknownFile
	}
	return ref
}

// Key maps a reference to the storage key it names.
func Key(ref string) (string, error) {
	n := Normalize(ref)
	if n == "" {
		return "", ErrEmptyRef
	}
	if isAbsoluteURL(n) || !strings.HasPrefix(n, UploadsPrefix+"/") {
		return "", ErrNotLocal
	}
	key := strings.TrimPrefix(n, UploadsPrefix+"/")
	if key == "" || key == "." {
		return "", ErrNotLocal
	}
	return key, nil
}

// RefForKey is the public reference of a storage key.
func RefForKey(key string) string {
	return UploadsPrefix + "/" + strings.TrimPrefix(key, "/")
}

// CanonicalKey is the storage key a client's document should live under.
func CanonicalKey(clientID, filename string) string {
	return DocumentsDir + "/" + clientID + "/" + filename
}

// CanonicalRef is the reference stored on the client record for a canonical key.
func CanonicalRef(clientID, filename string) string {
	return RefForKey(CanonicalKey(clientID, filename))
}

// ClientPrefix is the storage prefix of a client's document directory.
func ClientPrefix(clientID string) string {
	return DocumentsDir + "/" + clientID + "/"
}

// NewTempDir returns a fresh temp upload directory name.
func NewTempDir() string {
	return TempPrefix + uuid.NewString()
}
