package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fwojciec/docdex"
)

// Compile-time interface verification.
var _ docdex.ChunkService = (*ChunkService)(nil)

// ChunkService implements docdex.ChunkService using SQLite.
type ChunkService struct {
	db *DB
}

// NewChunkService creates a new ChunkService.
func NewChunkService(db *DB) *ChunkService {
	return &ChunkService{db: db}
}

// ReplaceChunks deletes every chunk of the document and inserts chunks in a
// single transaction. The FTS triggers run inside the same transaction.
func (s *ChunkService) ReplaceChunks(ctx context.Context, url, version string, chunks []docdex.Chunk) error {
	if url == "" || version == "" {
		return docdex.Errorf(docdex.EINVALID, "document URL and version required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM chunks WHERE url = ? AND version = ?",
		url, version,
	); err != nil {
		return fmt.Errorf("delete chunks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (url, version, position, heading_path, heading, content)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, c := range chunks {
		path := c.HeadingPath
		if path == nil {
			path = []string{}
		}
		encoded, err := json.Marshal(path)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, url, version, i, string(encoded),
			docdex.FormatHeadingPath(path), c.Content); err != nil {
			return fmt.Errorf("insert chunk %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// FindChunks returns the chunks of a document ordered by position.
func (s *ChunkService) FindChunks(ctx context.Context, url, version string) ([]docdex.Chunk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT position, heading_path, content
		FROM chunks
		WHERE url = ? AND version = ?
		ORDER BY position ASC
	`, url, version)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chunks []docdex.Chunk
	for rows.Next() {
		var c docdex.Chunk
		var path string
		if err := rows.Scan(&c.Position, &path, &c.Content); err != nil {
			return nil, err
		}
		if c.HeadingPath, err = decodeHeadingPath(path); err != nil {
			return nil, err
		}
		chunks = append(chunks, c)
	}

	return chunks, rows.Err()
}

// CountChunks returns the number of stored chunks.
func (s *ChunkService) CountChunks(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chunks").Scan(&n)
	return n, err
}

func decodeHeadingPath(s string) ([]string, error) {
	path := []string{}
	if err := json.Unmarshal([]byte(s), &path); err != nil {
		return nil, fmt.Errorf("failed to parse heading_path: %w", err)
	}
	return path, nil
}
