package clipboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractURL(t *testing.T) {
	v := NewValidator()
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain https", "https://host.example/file/abc", "https://host.example/file/abc"},
		{"surrounding space", "  http://host.example/x  ", "http://host.example/x"},
		{"no scheme", "host.example/file", ""},
		{"ftp", "ftp://host.example/file", ""},
		{"no host", "https:///path", ""},
		{"two lines", "https://a.example\nhttps://b.example", ""},
		{"embedded space", "https://a.example/x y", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, v.ExtractURL(tt.in))
		})
	}
}

func TestExtractURL_TooLong(t *testing.T) {
	long := "https://host.example/"
	for len(long) <= maxURLLength {
		long += "aaaaaaaaaa"
	}
	assert.Empty(t, NewValidator().ExtractURL(long))
}

func TestExtractURLs(t *testing.T) {
	text := "# links for today\r\n" +
		"https://host.example/file/1\n" +
		"\n" +
		"not a link\n" +
		"  https://host.example/file/2  \n" +
		"https://host.example/file/1\n"

	got := NewValidator().ExtractURLs(text)
	assert.Equal(t, []string{
		"https://host.example/file/1",
		"https://host.example/file/2",
		"https://host.example/file/1",
	}, got)
}

func TestExtractURLs_Empty(t *testing.T) {
	assert.Empty(t, NewValidator().ExtractURLs(""))
	assert.Empty(t, NewValidator().ExtractURLs("\n\n# only comments\n"))
}
