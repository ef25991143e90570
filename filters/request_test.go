package filters

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRequest(t *testing.T) {
	r := NewRequest("https://Sub.Example.org:8080/Path?q=1", "example.org")

	assert.Equal(t, "https://Sub.Example.org:8080/Path?q=1", r.URL)
	assert.Equal(t, "https://sub.example.org:8080/path?q=1", r.URLLowerCase)
	assert.Equal(t, "sub.example.org", r.Hostname)
	assert.Equal(t, "example.org", r.Domain)
	assert.Equal(t, "example.org", r.DocumentDomain)
	assert.False(t, r.ThirdParty)
}

func TestNewRequest_thirdParty(t *testing.T) {
	r := NewRequest("https://tracker.test/pixel", "news.example.org")
	assert.True(t, r.ThirdParty)

	// No document context means first-party.
	r = NewRequest("https://tracker.test/pixel", "")
	assert.False(t, r.ThirdParty)

	r = NewRequest("https://news.example.org/app.js", "News.Example.ORG")
	assert.False(t, r.ThirdParty)
	assert.Equal(t, "news.example.org", r.DocumentDomain)
}

func TestNewRequest_longURL(t *testing.T) {
	url := "https://example.org/" + strings.Repeat("a", maxURLLength)
	r := NewRequest(url, "")

	assert.Len(t, r.URL, maxURLLength)
	assert.Equal(t, "example.org", r.Hostname)
}

func TestNewRequest_noPublicSuffix(t *testing.T) {
	r := NewRequest("http://localhost:3000/", "")

	assert.Equal(t, "localhost", r.Hostname)
	// The hostname itself is used when there is no registrable domain.
	assert.Equal(t, "localhost", r.Domain)
}
