package utils

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
)

// DefaultFilename is used when nothing usable can be derived from a URL.
const DefaultFilename = "download.bin"

// FilenameFromURL returns the final path segment of rawurl with the query
// string and fragment stripped, sanitised for use on disk.
func FilenameFromURL(rawurl string) string {
	var segment string
	if parsed, err := url.Parse(rawurl); err == nil {
		segment = parsed.Path
	} else {
		// Unparseable: fall back to plain string surgery
		segment = rawurl
		if i := strings.IndexAny(segment, "?#"); i != -1 {
			segment = segment[:i]
		}
	}
	if i := strings.LastIndex(segment, "/"); i != -1 {
		segment = segment[i+1:]
	}

	name := sanitizeFilename(segment)
	if name == "" || name == "." || name == ".." || name == "_" {
		return DefaultFilename
	}
	return name
}

// WithSniffedExtension appends an extension detected from the first bytes of
// the body when name has none. Names that already carry an extension are
// returned unchanged.
func WithSniffedExtension(name string, header []byte) string {
	if filepath.Ext(name) != "" || len(header) == 0 {
		return name
	}
	kind, err := filetype.Match(header)
	if err != nil || kind == filetype.Unknown || kind.Extension == "" {
		return name
	}
	return name + "." + kind.Extension
}

func sanitizeFilename(name string) string {
	// Replace backslashes with forward slashes first so filepath.Base treats them as separators
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	if name == "." {
		return name
	}
	if name == "/" || name == "\\" {
		return "_"
	}
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "/", "_")
	// Additional standard replacements for windows/linux safety
	name = strings.ReplaceAll(name, ":", "_")
	name = strings.ReplaceAll(name, "*", "_")
	name = strings.ReplaceAll(name, "?", "_")
	name = strings.ReplaceAll(name, "\"", "_")
	name = strings.ReplaceAll(name, "<", "_")
	name = strings.ReplaceAll(name, ">", "_")
	name = strings.ReplaceAll(name, "|", "_")
	return name
}
