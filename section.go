package docdex

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MinChunkLength is the minimum trimmed length of a section body. Shorter
// bodies are dropped as noise.
const MinChunkLength = 10

var (
	headingRe  = regexp.MustCompile(`^(#{1,6})\s+(.+?)(?:\s+#+)?\s*$`)
	imageRe    = regexp.MustCompile(`!\[([^\]]*)\]\([^)]*\)`)
	linkRe     = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	codeSpanRe = regexp.MustCompile("`+([^`]*)`+")
	strongRe   = regexp.MustCompile(`(\*\*|__)(.+?)(\*\*|__)`)
	emphasisRe = regexp.MustCompile(`(^|[^\w*])[*_]([^*_]+)[*_]`)
	strikeRe   = regexp.MustCompile(`~~(.+?)~~`)
)

// ChunkMarkdown splits markdown into heading-addressed sections.
//
// It makes a single pass over the lines, keeping a stack of the enclosing
// heading titles. A heading at level n closes the pending section, truncates
// the stack to n-1 entries and pushes its own title, so a shallower heading
// discards deeper history. Content before the first heading is emitted under
// an empty heading path. Sections whose trimmed body is shorter than
// MinChunkLength are dropped. Lines inside fenced code blocks are never
// treated as headings.
//
// The function is pure: identical input yields identical output.
func ChunkMarkdown(markdown string) []Chunk {
	var (
		chunks []Chunk
		stack  []string
		body   []string
		open   fence
	)

	flush := func() {
		content := strings.TrimSpace(strings.Join(body, "\n"))
		body = body[:0]
		if utf8.RuneCountInString(content) < MinChunkLength {
			return
		}
		path := make([]string, len(stack))
		copy(path, stack)
		chunks = append(chunks, Chunk{
			HeadingPath: path,
			Content:     content,
			Position:    len(chunks),
		})
	}

	for _, line := range strings.Split(markdown, "\n") {
		line = strings.TrimRight(line, "\r")

		if open.size > 0 {
			if open.closedBy(line) {
				open = fence{}
			}
			body = append(body, line)
			continue
		}
		if f, ok := parseFence(line); ok {
			open = f
			body = append(body, line)
			continue
		}

		if level, title, ok := parseHeading(line); ok {
			flush()
			stack = stack[:min(len(stack), level-1)]
			stack = append(stack, title)
			continue
		}

		body = append(body, line)
	}
	flush()

	return chunks
}

// parseHeading reports whether line is an ATX heading and returns its level
// and plain-text title.
func parseHeading(line string) (level int, title string, ok bool) {
	m := headingRe.FindStringSubmatch(line)
	if m == nil {
		return 0, "", false
	}
	title = StripInlineMarkup(m[2])
	if title == "" {
		return 0, "", false
	}
	return len(m[1]), title, true
}

// StripInlineMarkup removes emphasis, code span, strikethrough, image, and
// link markup from s, leaving the visible text.
func StripInlineMarkup(s string) string {
	s = imageRe.ReplaceAllString(s, "$1")
	s = linkRe.ReplaceAllString(s, "$1")
	s = codeSpanRe.ReplaceAllString(s, "$1")
	s = strongRe.ReplaceAllString(s, "$2")
	s = strikeRe.ReplaceAllString(s, "$1")
	s = emphasisRe.ReplaceAllString(s, "$1$2")
	return strings.TrimSpace(s)
}

// fence is an open fenced code block: its marker character and run length.
type fence struct {
	char byte
	size int
}

// parseFence reports whether line opens a fenced code block.
func parseFence(line string) (fence, bool) {
	trimmed := strings.TrimLeft(line, " ")
	if len(line)-len(trimmed) > 3 || trimmed == "" {
		return fence{}, false
	}
	c := trimmed[0]
	if c != '`' && c != '~' {
		return fence{}, false
	}
	n := len(trimmed) - len(strings.TrimLeft(trimmed, string(c)))
	if n < 3 {
		return fence{}, false
	}
	if c == '`' && strings.ContainsRune(trimmed[n:], '`') {
		return fence{}, false
	}
	return fence{char: c, size: n}, true
}

// closedBy reports whether line closes the fence: a run of the same marker
// at least as long as the opening one, followed only by whitespace.
func (f fence) closedBy(line string) bool {
	trimmed := strings.TrimLeft(line, " ")
	if len(line)-len(trimmed) > 3 {
		return false
	}
	rest := strings.TrimLeft(trimmed, string(f.char))
	return len(trimmed)-len(rest) >= f.size && strings.TrimSpace(rest) == ""
}
