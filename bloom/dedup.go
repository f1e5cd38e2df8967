// Package bloom drops repeated result URLs while paging through a search
// engine. Engines routinely return the same link on consecutive pages, and
// a Bloom filter keeps the memory cost flat regardless of page count.
package bloom

import (
	"net/url"
	"strings"

	"github.com/bits-and-blooms/bloom/v3"
)

// DefaultFalsePositiveRate keeps accidental drops rare for result lists of
// a few hundred URLs.
const DefaultFalsePositiveRate = 0.0001

// Dedup remembers URLs it has been shown. It is not safe for concurrent use.
type Dedup struct {
	f     *bloom.BloomFilter
	count int
}

// NewDedup returns a Dedup sized for n expected URLs.
func NewDedup(n int) *Dedup {
	if n < 1 {
		n = 1
	}
	return &Dedup{f: bloom.NewWithEstimates(uint(n), DefaultFalsePositiveRate)}
}

// Seen records rawURL and reports whether an equivalent URL was recorded
// before. URLs differing only in host case or fragment are equivalent.
func (d *Dedup) Seen(rawURL string) bool {
	if d.f.TestAndAddString(key(rawURL)) {
		return true
	}
	d.count++
	return false
}

// Count returns the number of distinct URLs recorded.
func (d *Dedup) Count() int {
	return d.count
}

// Unique returns urls in order with repeats removed.
func Unique(urls []string) []string {
	d := NewDedup(len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if !d.Seen(u) {
			out = append(out, u)
		}
	}
	return out
}

func key(rawURL string) string {
	s := strings.TrimSpace(rawURL)
	u, err := url.Parse(s)
	if err != nil {
		return s
	}
	u.Fragment = ""
	u.RawFragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	return u.String()
}
