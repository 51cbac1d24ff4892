package crawl

import (
	"sync"

	"github.com/PuerkitoBio/purell"
	"github.com/fwojciec/docdex"
	"github.com/fwojciec/docdex/bloom"
)

// normalizeFlags canonicalize URLs before deduplication.
const normalizeFlags = purell.FlagLowercaseScheme |
	purell.FlagLowercaseHost |
	purell.FlagRemoveDefaultPort |
	purell.FlagRemoveFragment |
	purell.FlagDecodeUnnecessaryEscapes |
	purell.FlagSortQuery |
	purell.FlagRemoveDuplicateSlashes |
	purell.FlagRemoveDotSegments |
	purell.FlagRemoveTrailingSlash

// Normalize returns the canonical form of rawURL used for deduplication.
// URLs differing only in fragment, trailing slash, host case, default port,
// or query order normalize to the same string.
func Normalize(rawURL string) (string, error) {
	return purell.NormalizeURLString(rawURL, normalizeFlags)
}

// Frontier is an in-memory FIFO URL queue with a seen set. A URL is marked
// seen when it is pushed or claimed and is never queued again afterwards.
// It is safe for concurrent use by multiple goroutines.
type Frontier struct {
	mu     sync.Mutex
	filter *bloom.Filter
	seen   map[string]struct{}
	queue  []docdex.FrontierEntry
}

// NewFrontier creates a new Frontier whose Bloom filter is sized for n
// expected URLs with the given false positive rate. Filter hits are
// confirmed against an exact set, so false positives never drop a URL.
func NewFrontier(n uint, fpRate float64) *Frontier {
	return &Frontier{
		filter: bloom.NewFilter(n, fpRate),
		seen:   make(map[string]struct{}),
	}
}

// Push normalizes entry.URL and appends it to the queue.
// Returns false if the URL is invalid or has already been seen.
func (f *Frontier) Push(entry docdex.FrontierEntry) bool {
	u, err := Normalize(entry.URL)
	if err != nil || u == "" {
		return false
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.mark(u) {
		return false
	}
	entry.URL = u
	f.queue = append(f.queue, entry)
	return true
}

// Pop returns the oldest queued entry.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (docdex.FrontierEntry, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.queue) == 0 {
		return docdex.FrontierEntry{}, false
	}
	entry := f.queue[0]
	f.queue[0] = docdex.FrontierEntry{}
	f.queue = f.queue[1:]
	return entry, true
}

// Claim marks rawURL as seen without queueing it. It returns true only for
// the first caller to claim a given normalized URL, so concurrent workers
// can use it as an atomic check-and-mark before a visit.
func (f *Frontier) Claim(rawURL string) bool {
	u, err := Normalize(rawURL)
	if err != nil || u == "" {
		return false
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mark(u)
}

// Seen returns true if the URL has been queued or claimed.
func (f *Frontier) Seen(rawURL string) bool {
	u, err := Normalize(rawURL)
	if err != nil {
		return false
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.filter.Test(u) {
		return false
	}
	_, ok := f.seen[u]
	return ok
}

// Len returns the number of URLs in the queue.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// mark records u as seen and reports whether it was new. Callers hold mu.
func (f *Frontier) mark(u string) bool {
	if f.filter.TestAndAdd(u) {
		if _, ok := f.seen[u]; ok {
			return false
		}
	}
	f.seen[u] = struct{}{}
	return true
}
