// Package fs exports stored documents as Markdown files.
package fs

import (
	"bytes"
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/docdex"
	"gopkg.in/yaml.v3"
)

// URLToPath converts a document URL to a relative file path rooted at the
// URL's host.
// Example: https://example.com/docs/api/users → example.com/docs/api/users.md
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", docdex.Errorf(docdex.EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	if u.Host == "" {
		return "", docdex.Errorf(docdex.EINVALID, "URL has no host: %q", rawURL)
	}

	p := u.Path
	for _, segment := range strings.Split(p, "/") {
		if segment == ".." {
			return "", docdex.Errorf(docdex.EINVALID, "path traversal in URL: %q", rawURL)
		}
	}

	host := u.Host
	if strings.ContainsAny(host, `/\`) {
		return "", docdex.Errorf(docdex.EINVALID, "invalid host in URL: %q", rawURL)
	}
	host = strings.ReplaceAll(host, ":", "_")

	switch {
	case p == "" || p == "/":
		p = "index.md"
	case strings.HasSuffix(p, "/"):
		p = strings.TrimPrefix(p, "/") + "index.md"
	default:
		p = strings.TrimPrefix(p, "/") + ".md"
	}

	return host + "/" + p, nil
}

type frontMatter struct {
	Source       string    `yaml:"source"`
	Title        string    `yaml:"title"`
	Version      string    `yaml:"version"`
	Crawled      time.Time `yaml:"crawled"`
	ETag         string    `yaml:"etag,omitempty"`
	LastModified string    `yaml:"last_modified,omitempty"`
}

// FormatDocument renders a document as Markdown preceded by YAML front matter.
func FormatDocument(doc *docdex.Document) ([]byte, error) {
	meta, err := yaml.Marshal(frontMatter{
		Source:       doc.URL,
		Title:        doc.DisplayTitle(),
		Version:      doc.Version,
		Crawled:      doc.CrawledAt.UTC(),
		ETag:         doc.ETag,
		LastModified: doc.LastModified,
	})
	if err != nil {
		return nil, err
	}

	var b bytes.Buffer
	b.WriteString("---\n")
	b.Write(meta)
	b.WriteString("---\n\n")
	b.WriteString(doc.Markdown)
	return b.Bytes(), nil
}

// Ensure Writer implements docdex.DocumentWriter at compile time.
var _ docdex.DocumentWriter = (*Writer)(nil)

// Writer writes documents as Markdown files under a directory.
//
// Files are staged in a sibling "<dir>.tmp" directory. Commit replaces the
// target directory with the staged tree and Abort discards it, so an
// interrupted export never leaves a half-written target behind.
type Writer struct {
	dir string
}

// NewWriter creates a new Writer that exports into dir.
func NewWriter(dir string) *Writer {
	return &Writer{dir: filepath.Clean(dir)}
}

func (w *Writer) stagingDir() string {
	return w.dir + ".tmp"
}

// WriteDocument stages doc at <host>/<path>.md.
func (w *Writer) WriteDocument(ctx context.Context, doc *docdex.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := doc.Validate(); err != nil {
		return err
	}

	relPath, err := URLToPath(doc.URL)
	if err != nil {
		return err
	}

	content, err := FormatDocument(doc)
	if err != nil {
		return err
	}

	fullPath := filepath.Join(w.stagingDir(), filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}
	return os.WriteFile(fullPath, content, 0644)
}

// Commit replaces the export directory with the staged files.
func (w *Writer) Commit() error {
	if err := os.MkdirAll(w.stagingDir(), 0755); err != nil {
		return err
	}
	if err := os.RemoveAll(w.dir); err != nil {
		return err
	}
	return os.Rename(w.stagingDir(), w.dir)
}

// Abort discards the staged files.
func (w *Writer) Abort() error {
	return os.RemoveAll(w.stagingDir())
}
