package harvest

import (
	"net/url"
	"sort"
	"strings"
)

// Deduplicator tracks detail URLs seen during one orchestration run.
// It is explicit state owned by the run that created it (no ambient
// globals), accessed by that run's single worker only.
type Deduplicator struct {
	seen map[string]struct{}
}

// NewDeduplicator creates an empty Deduplicator.
func NewDeduplicator() *Deduplicator {
	return &Deduplicator{seen: make(map[string]struct{})}
}

// Seen reports whether the URL (after canonicalization) was marked before.
func (d *Deduplicator) Seen(rawURL string) bool {
	_, ok := d.seen[CanonicalizeURL(rawURL)]
	return ok
}

// Mark records a URL as seen.
func (d *Deduplicator) Mark(rawURL string) {
	d.seen[CanonicalizeURL(rawURL)] = struct{}{}
}

// Count returns the number of unique URLs seen.
func (d *Deduplicator) Count() int { return len(d.seen) }

// CanonicalizeURL normalizes a URL for deduplication:
// - lowercases scheme and host
// - removes fragment
// - sorts query parameters
// - removes trailing slash (except root)
// - removes default ports (80 for http, 443 for https)
func CanonicalizeURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	host := u.Hostname()
	port := u.Port()
	if (u.Scheme == "http" && port == "80") || (u.Scheme == "https" && port == "443") {
		u.Host = host
	}

	if u.RawQuery != "" {
		params := u.Query()
		keys := make([]string, 0, len(params))
		for k := range params {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var sorted []string
		for _, k := range keys {
			vals := params[k]
			sort.Strings(vals)
			for _, v := range vals {
				sorted = append(sorted, url.QueryEscape(k)+"="+url.QueryEscape(v))
			}
		}
		u.RawQuery = strings.Join(sorted, "&")
	}

	if u.Path != "/" && strings.HasSuffix(u.Path, "/") {
		u.Path = strings.TrimRight(u.Path, "/")
	}
	if u.Path == "" {
		u.Path = "/"
	}

	return u.String()
}
