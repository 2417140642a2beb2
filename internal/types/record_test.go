package types

import "testing"

func TestParsePeriod(t *testing.T) {
	for _, s := range []string{"day", "week", "month", "year"} {
		p, err := ParsePeriod(s)
		if err != nil {
			t.Errorf("ParsePeriod(%q) failed: %v", s, err)
		}
		if string(p) != s {
			t.Errorf("ParsePeriod(%q) = %q", s, p)
		}
	}

	for _, s := range []string{"", "fortnight", "Week", "weekly"} {
		if _, err := ParsePeriod(s); err == nil {
			t.Errorf("ParsePeriod(%q) accepted", s)
		}
	}
}

func TestScrapeRequestString(t *testing.T) {
	r := ScrapeRequest{Topic: "go", Period: PeriodWeek, TopN: 10}
	if got := r.String(); got != "go/week top 10" {
		t.Errorf("String() = %q", got)
	}
}
