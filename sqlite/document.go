package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/fwojciec/docdex"
)

// Compile-time interface verification.
var _ docdex.DocumentService = (*DocumentService)(nil)

// DocumentService implements docdex.DocumentService using SQLite.
type DocumentService struct {
	db *DB
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(db *DB) *DocumentService {
	return &DocumentService{db: db}
}

const documentColumns = "url, version, domain, title, markdown, etag, last_modified, content_hash, crawled_at"

// UpsertDocument inserts or overwrites a document. When the stored row has the
// same non-empty ETag nothing is written and changed is false.
func (s *DocumentService) UpsertDocument(ctx context.Context, doc *docdex.Document) (bool, error) {
	if err := doc.Validate(); err != nil {
		return false, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	if doc.ETag != "" {
		var stored string
		err := tx.QueryRowContext(ctx,
			"SELECT etag FROM documents WHERE url = ? AND version = ?",
			doc.URL, doc.Version,
		).Scan(&stored)
		switch {
		case err == nil && stored == doc.ETag:
			return false, nil
		case err != nil && !errors.Is(err, sql.ErrNoRows):
			return false, err
		}
	}

	if doc.Domain == "" {
		doc.Domain = hostOf(doc.URL)
	}
	doc.CrawledAt = time.Now().UTC()
	doc.ContentHash = hashContent(doc.Markdown)

	_, err = tx.ExecContext(ctx, `
		INSERT INTO documents (`+documentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (url, version) DO UPDATE SET
			domain = excluded.domain,
			title = excluded.title,
			markdown = excluded.markdown,
			etag = excluded.etag,
			last_modified = excluded.last_modified,
			content_hash = excluded.content_hash,
			crawled_at = excluded.crawled_at
	`, doc.URL, doc.Version, doc.Domain, doc.Title, doc.Markdown, doc.ETag, doc.LastModified,
		doc.ContentHash, doc.CrawledAt.Format(time.RFC3339))
	if err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

// FindDocument retrieves a document by URL and version.
func (s *DocumentService) FindDocument(ctx context.Context, url, version string) (*docdex.Document, error) {
	doc, err := scanDocument(s.db.QueryRowContext(ctx,
		"SELECT "+documentColumns+" FROM documents WHERE url = ? AND version = ?",
		url, version,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, docdex.Errorf(docdex.ENOTFOUND, "document not found")
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// FindDocuments retrieves documents matching the filter, ordered by URL.
func (s *DocumentService) FindDocuments(ctx context.Context, filter docdex.DocumentFilter) ([]*docdex.Document, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + documentColumns + " FROM documents WHERE 1=1")

	if filter.Version != nil {
		query.WriteString(" AND version = ?")
		args = append(args, *filter.Version)
	}
	if filter.Domain != nil {
		query.WriteString(" AND domain = ?")
		args = append(args, *filter.Domain)
	}

	query.WriteString(" ORDER BY url ASC, version ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*docdex.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	return docs, rows.Err()
}

// DeleteDocument permanently removes a document. Its chunks and their index
// entries are removed by the cascade.
func (s *DocumentService) DeleteDocument(ctx context.Context, url, version string) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM documents WHERE url = ? AND version = ?",
		url, version,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return docdex.Errorf(docdex.ENOTFOUND, "document not found")
	}

	return nil
}

// CountDocuments returns the number of stored documents.
func (s *DocumentService) CountDocuments(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents").Scan(&n)
	return n, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (*docdex.Document, error) {
	var doc docdex.Document
	var crawledAt string

	if err := row.Scan(&doc.URL, &doc.Version, &doc.Domain, &doc.Title, &doc.Markdown,
		&doc.ETag, &doc.LastModified, &doc.ContentHash, &crawledAt); err != nil {
		return nil, err
	}

	var err error
	doc.CrawledAt, err = parseRFC3339(crawledAt, "crawled_at")
	if err != nil {
		return nil, err
	}

	return &doc, nil
}
