package utils

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// NormalizePath cleans a local path typed or dropped into a text field:
// surrounding quotes go, a leading "~" expands to the home directory and
// separators follow the local system.
func NormalizePath(path string) string {
	path = strings.TrimSpace(path)
	if len(path) >= 2 {
		if q := path[0]; (q == '"' || q == '\'') && path[len(path)-1] == q {
			path = path[1 : len(path)-1]
		}
	}
	if path == "" {
		return ""
	}

	// Terminals escape spaces when a file is dropped in.
	if runtime.GOOS != "windows" {
		path = strings.ReplaceAll(path, `\ `, " ")
	}

	if path == "~" || strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[1:])
		}
	}

	if IsUNCPath(path) {
		return `\` + filepath.Clean(path[1:])
	}
	return filepath.Clean(filepath.FromSlash(path))
}

func IsUNCPath(path string) bool {
	return runtime.GOOS == "windows" && strings.HasPrefix(path, `\\`)
}

// IsDocx reports whether path names a .docx file by extension.
func IsDocx(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".docx")
}
