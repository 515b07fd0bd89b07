// Package media stores uploaded images under sanitized names.
package media

import (
	"context"
	"errors"
	"io"
	"mime"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	// ErrNotFound is returned when no stored file has the requested name
	ErrNotFound = errors.New("file not found")
	// ErrInvalidName is returned when a filename sanitizes to nothing
	ErrInvalidName = errors.New("invalid filename")
)

// Store saves and retrieves image bytes. Saving over an existing name
// replaces its content.
type Store interface {
	Save(ctx context.Context, rawName string, content io.Reader) (string, error)
	Open(ctx context.Context, name string) (*Object, error)
	// Delete removes a stored file. Deleting a missing name is not an error.
	Delete(ctx context.Context, name string) error
}

// Object is an opened stored file. Callers must close Body.
type Object struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.ReadCloser
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SanitizeFilename derives a filesystem-safe name from client input.
// Path separators become word breaks, so "../../etc/passwd.jpg" yields
// "etc_passwd.jpg". The result never contains a separator or starts with a dot.
func SanitizeFilename(raw string) string {
	s := asciiFold(raw)
	s = strings.NewReplacer("/", " ", "\\", " ").Replace(s)
	s = strings.Join(strings.Fields(s), "_")
	s = unsafeChars.ReplaceAllString(s, "")
	return strings.Trim(s, "._")
}

func asciiFold(s string) string {
	var b strings.Builder
	for _, r := range norm.NFKD.String(s) {
		if r <= unicode.MaxASCII {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ContentType infers a MIME type from the file extension
func ContentType(name string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
