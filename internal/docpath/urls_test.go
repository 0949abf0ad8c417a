package docpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestURLBuilder(t *testing.T) {
	b := NewURLBuilder("https://desk.example.com/api/")
	assert.Equal(t, "https://desk.example.com", b.Base())

	assert.Equal(t, "https://desk.example.com/uploads/documents/c1/a.pdf", b.Direct("documents/c1/a.pdf"))
	assert.Equal(t, "https://cdn.example.com/a.pdf", b.Direct("https://cdn.example.com/a.pdf"))
	assert.Equal(t, "", b.Direct(""))

	loc := Location{ClientID: "c1", Filename: "nic proof.pdf"}
	assert.Equal(t, "https://desk.example.com/api/clients/c1/documents/nic%20proof.pdf", b.API(loc))
	assert.Equal(t, "https://desk.example.com/api/clients/c1/documents/nic%20proof.pdf/download", b.Download(loc))
}

func TestWithToken(t *testing.T) {
	assert.Equal(t, "http://x/a", WithToken("http://x/a", ""))
	assert.Equal(t, "http://x/a?token=t%2B1", WithToken("http://x/a", "t+1"))
	assert.Equal(t, "http://x/a?v=1&token=t", WithToken("http://x/a?v=1", "t"))
}
