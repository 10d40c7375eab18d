package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeWebsite(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Example.com", "example.com"},
		{"  example.COM \t", "example.com"},
		{"", ""},
		{"   ", ""},
		{"HTTPS://Shop.Example.com/Path", "https://shop.example.com/path"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeWebsite(tt.in), "input %q", tt.in)
	}
}

func TestNormalizeWebsite_Idempotent(t *testing.T) {
	inputs := []string{"", " A ", "Example.com", "\tMiXeD.CaSe.org\n", "ÄBC.de", "already.normal"}
	for _, in := range inputs {
		once := NormalizeWebsite(in)
		assert.Equal(t, once, NormalizeWebsite(once), "input %q", in)
	}
}

func TestNormalizeWebsites(t *testing.T) {
	got := NormalizeWebsites([]string{"B.com", "a.com", "", "b.com ", "  ", "A.COM", "c.com"})
	assert.Equal(t, []string{"b.com", "a.com", "c.com"}, got)

	assert.Empty(t, NormalizeWebsites([]string{"", " "}))
	assert.NotNil(t, NormalizeWebsites(nil))
}
