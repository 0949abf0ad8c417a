package docpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		ref  string
		want string
	}{
		{"empty", "  ", ""},
		{"canonical", "/uploads/documents/c1/a.pdf", "/uploads/documents/c1/a.pdf"},
		{"missing uploads prefix", "/documents/c1/a.pdf", "/uploads/documents/c1/a.pdf"},
		{"missing leading slash", "documents/c1/a.pdf", "/uploads/documents/c1/a.pdf"},
		{"bare temp dir", "temp-ab12/a.pdf", "/uploads/documents/temp-ab12/a.pdf"},
		{"uploads url", "http://localhost:5000/uploads/documents/c1/a.pdf?token=x", "/uploads/documents/c1/a.pdf"},
		{"external url", " https://cdn.example.com/files/a.pdf ", "https://cdn.example.com/files/a.pdf"},
		{"backslashes", `\uploads\documents\c1\a.pdf`, "/uploads/documents/c1/a.pdf"},
		{"bare filename", "a.pdf", "/a.pdf"},
		{"dot segments", "/uploads/documents/c1/../c2/a.pdf", "/uploads/documents/c2/a.pdf"},
		{"proxied uploads path", "/api/uploads/documents/a/f.pdf", "/uploads/documents/a/f.pdf"},
		{"proxied uploads url", "https://desk.example.com/api/uploads/documents/a/f.pdf", "/uploads/documents/a/f.pdf"},
		{"traversal out of uploads", "/api/uploads/../../etc/passwd", "/etc/passwd"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.ref))
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		ref      string
		fallback string
		want     Location
	}{
		{"temp", "/uploads/documents/temp-1a2b-3c/nic.pdf", "", Location{"temp-1a2b-3c", "nic.pdf", PatternTemp}},
		{"standard", "/uploads/documents/c1/nic.pdf", "", Location{"c1", "nic.pdf", PatternStandard}},
		{"legacy without prefix", "documents/c1/nic.pdf", "", Location{"c1", "nic.pdf", PatternStandard}},
		{"direct", "/files/documents/c1/nic.pdf", "", Location{"c1", "nic.pdf", PatternDirect}},
		{"root", "/uploads/documents/nic.pdf", "c9", Location{"c9", "nic.pdf", PatternRoot}},
		{"fallback", "nic.pdf", "c9", Location{"c9", "nic.pdf", PatternFallback}},
		{"uploads url", "https://desk.example.com/uploads/documents/c1/nic.pdf", "", Location{"c1", "nic.pdf", PatternStandard}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.ref, tt.fallback)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse("", "c1")
	assert.ErrorIs(t, err, ErrEmptyRef)

	_, err = Parse("nic.pdf", "")
	assert.ErrorIs(t, err, ErrUnparseable)

	_, err = Parse("/uploads/documents/nic.pdf", "")
	assert.ErrorIs(t, err, ErrUnparseable)
}

func TestLocation_IsTemp(t *testing.T) {
	assert.True(t, Location{ClientID: "temp-abc"}.IsTemp())
	assert.True(t, Location{ClientID: "TEMP-ABC"}.IsTemp())
	assert.False(t, Location{ClientID: "c1"}.IsTemp())
}

func TestValidTempDir(t *testing.T) {
	assert.True(t, ValidTempDir(NewTempDir()))
	assert.True(t, ValidTempDir("temp-0a1b"))
	assert.False(t, ValidTempDir("temp-../x"))
	assert.False(t, ValidTempDir("c1"))
	assert.False(t, ValidTempDir(""))
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "a.pdf", FileName("/uploads/documents/c1/a.pdf"))
	assert.Equal(t, "a.pdf", FileName("https://x.example.com/a.pdf?dl=1"))
	assert.Equal(t, "a.pdf", FileName(`C:\scans\a.pdf`))
	assert.Equal(t, "a.pdf", FileName("a.pdf"))
	assert.Equal(t, "unknown-file", FileName(""))
	assert.Equal(t, "unknown-file", FileName("/"))
}

func TestIsExternal(t *testing.T) {
	assert.True(t, IsExternal("https://cdn.example.com/a.pdf"))
	assert.False(t, IsExternal("https://desk.example.com/uploads/documents/c1/a.pdf"))
	assert.False(t, IsExternal("/uploads/documents/c1/a.pdf"))
	assert.False(t, IsExternal("a.pdf"))
	assert.False(t, IsExternal("https://desk.example.com/api/uploads/documents/c1/a.pdf"))
}

func TestKey(t *testing.T) {
	key, err := Key("/documents/c1/a.pdf")
	require.NoError(t, err)
	assert.Equal(t, "documents/c1/a.pdf", key)

	key, err = Key("http://localhost:5000/uploads/documents/temp-ab/a.pdf")
	require.NoError(t, err)
	assert.Equal(t, "documents/temp-ab/a.pdf", key)

	key, err = Key("/api/uploads/documents/c1/a.pdf")
	require.NoError(t, err)
	assert.Equal(t, "documents/c1/a.pdf", key)

	_, err = Key("")
	assert.ErrorIs(t, err, ErrEmptyRef)
	_, err = Key("https://cdn.example.com/a.pdf")
	assert.ErrorIs(t, err, ErrNotLocal)
	_, err = Key("/uploads/../etc/passwd")
	assert.ErrorIs(t, err, ErrNotLocal)
	_, err = Key("a.pdf")
	assert.ErrorIs(t, err, ErrNotLocal)
}

func TestCanonical(t *testing.T) {
	assert.Equal(t, "documents/c1/a.pdf", CanonicalKey("c1", "a.pdf"))
	assert.Equal(t, "/uploads/documents/c1/a.pdf", CanonicalRef("c1", "a.pdf"))
	assert.Equal(t, "/uploads/documents/c1/a.pdf", RefForKey("/documents/c1/a.pdf"))
	assert.Equal(t, "documents/c1/", ClientPrefix("c1"))
}
