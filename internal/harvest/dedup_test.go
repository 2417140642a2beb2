package harvest

import "testing"

func TestCanonicalizeURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase host", "https://DEV.to/alice/post", "https://dev.to/alice/post"},
		{"strip fragment", "https://dev.to/alice/post#comments", "https://dev.to/alice/post"},
		{"strip default https port", "https://dev.to:443/alice/post", "https://dev.to/alice/post"},
		{"strip default http port", "http://dev.to:80/alice/post", "http://dev.to/alice/post"},
		{"trailing slash", "https://dev.to/alice/post/", "https://dev.to/alice/post"},
		{"root slash kept", "https://dev.to/", "https://dev.to/"},
		{"sorted query", "https://dev.to/alice/post?b=2&a=1", "https://dev.to/alice/post?a=1&b=2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanonicalizeURL(tt.in); got != tt.want {
				t.Errorf("CanonicalizeURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDeduplicatorVariants(t *testing.T) {
	d := NewDeduplicator()

	d.Mark("https://dev.to/alice/post")
	variants := []string{
		"https://dev.to/alice/post",
		"https://DEV.to/alice/post",
		"https://dev.to/alice/post#comments",
		"https://dev.to/alice/post/",
		"https://dev.to:443/alice/post",
	}
	for _, v := range variants {
		if !d.Seen(v) {
			t.Errorf("variant %q not recognized as seen", v)
		}
	}
	if d.Seen("https://dev.to/bob/other-post") {
		t.Error("unrelated URL reported as seen")
	}
	if d.Count() != 1 {
		t.Errorf("count = %d, want 1", d.Count())
	}
}

// Marking the same URL twice is idempotent.
func TestDeduplicatorIdempotent(t *testing.T) {
	d := NewDeduplicator()
	d.Mark("https://dev.to/alice/post")
	d.Mark("https://dev.to/alice/post/")
	if d.Count() != 1 {
		t.Errorf("count = %d, want 1", d.Count())
	}
}
