package sqlite

import (
	"context"
	"strings"
	"unicode"

	"github.com/fwojciec/docdex"
)

// Compile-time interface verification.
var _ docdex.SearchService = (*SearchService)(nil)

// SearchService implements docdex.SearchService with FTS5 and bm25 ranking.
type SearchService struct {
	db *DB
}

// NewSearchService creates a new SearchService.
func NewSearchService(db *DB) *SearchService {
	return &SearchService{db: db}
}

// Search returns chunks matching every query token, best first.
//
// FTS5 bm25 returns lower values for better matches, so the score is its
// negation and results are ordered by descending score.
func (s *SearchService) Search(ctx context.Context, query string, opts docdex.SearchOptions) ([]docdex.SearchResult, error) {
	match := matchExpression(query)
	if match == "" {
		return []docdex.SearchResult{}, nil
	}

	limit := opts.Limit
	if limit <= 0 || limit > docdex.MaxSearchResults {
		limit = docdex.MaxSearchResults
	}

	var sql strings.Builder
	args := []any{match}

	sql.WriteString(`
		SELECT c.url, c.version, COALESCE(NULLIF(d.title, ''), c.url), c.heading_path, c.content,
			-bm25(chunks_fts) AS score
		FROM chunks_fts
		JOIN chunks c ON c.id = chunks_fts.rowid
		JOIN documents d ON d.url = c.url AND d.version = c.version
		WHERE chunks_fts MATCH ?`)
	if opts.Version != "" {
		sql.WriteString(" AND c.version = ?")
		args = append(args, opts.Version)
	}
	sql.WriteString(" ORDER BY score DESC, c.url ASC, c.position ASC LIMIT ?")
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, sql.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []docdex.SearchResult{}
	for rows.Next() {
		var r docdex.SearchResult
		var path string
		if err := rows.Scan(&r.URL, &r.Version, &r.Title, &path, &r.Content, &r.Score); err != nil {
			return nil, err
		}
		if r.HeadingPath, err = decodeHeadingPath(path); err != nil {
			return nil, err
		}
		results = append(results, r)
	}

	return results, rows.Err()
}

// matchExpression turns whitespace-separated tokens into an FTS5 query in
// which every token is a quoted phrase. Adjacent phrases are combined with an
// implicit AND. Tokens without letters or digits are dropped because the
// tokenizer would discard them anyway.
func matchExpression(query string) string {
	var phrases []string
	for _, token := range strings.Fields(query) {
		if !strings.ContainsFunc(token, isWordRune) {
			continue
		}
		phrases = append(phrases, `"`+strings.ReplaceAll(token, `"`, `""`)+`"`)
	}
	return strings.Join(phrases, " ")
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
