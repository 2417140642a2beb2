package types

import "fmt"

// TrendingPeriod is the time window articles are ranked over.
type TrendingPeriod string

const (
	PeriodDay   TrendingPeriod = "day"
	PeriodWeek  TrendingPeriod = "week"
	PeriodMonth TrendingPeriod = "month"
	PeriodYear  TrendingPeriod = "year"
)

// ParsePeriod converts a string into a TrendingPeriod.
func ParsePeriod(s string) (TrendingPeriod, error) {
	switch TrendingPeriod(s) {
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodYear:
		return TrendingPeriod(s), nil
	default:
		return "", fmt.Errorf("invalid trending period %q (want day/week/month/year)", s)
	}
}

// TopicAll disables topic filtering on the listing page.
const TopicAll = "all"

// ScrapeRequest describes one harvesting unit: the top N articles for a
// (topic, period) pair. Requests are immutable once created.
type ScrapeRequest struct {
	Topic  string
	Period TrendingPeriod
	TopN   int
}

func (r ScrapeRequest) String() string {
	return fmt.Sprintf("%s/%s top %d", r.Topic, r.Period, r.TopN)
}

// Sentinel values for fields that were not observed on the page.
// ReactionCount and CommentsCount reuse 0 as their sentinel, so a stored 0
// is ambiguous between "observed zero" and "not observed"; ReadTimeUnknown
// is reserved and unambiguous. Consumers must not assume 0 means absent.
const ReadTimeUnknown = -1

// ArticleMetadata is the field set extracted from one listing item.
// Absent string fields are "", absent numeric fields hold their sentinel.
type ArticleMetadata struct {
	Date            string   `json:"date"` // ISO calendar date (YYYY-MM-DD), "" when absent
	Title           string   `json:"title"`
	DetailURL       string   `json:"url"`
	ReadTimeMinutes int      `json:"read_time"`
	Tags            []string `json:"tags"`
	ReactionCount   int      `json:"reactions_count"`
	CommentsCount   int      `json:"comments_count"`
}

// EnrichedRecord is an ArticleMetadata promoted with provenance fields and
// the detail-page comment thread. It is the unit handed to storage sinks.
//
// Rank is the 1-based position within the record's (topic, period) batch,
// contiguous in post-dedup listing order. Comments is never nil: both "no
// comments exist" and "extraction exhausted its retries" yield the empty
// slice.
type EnrichedRecord struct {
	ArticleMetadata

	Rank     int            `json:"rank"`
	Topic    string         `json:"topic"`
	Period   TrendingPeriod `json:"trending_period"`
	Comments []string       `json:"comments"`
}
