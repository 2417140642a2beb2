package harvest

import (
	"context"
	"errors"
	"testing"
	"time"

	"devtrend/internal/browser"
	"devtrend/internal/types"
)

const commentsMarkup = `<div id="comments">
	<div class="comment__body"><p>Great writeup, thanks!</p></div>
	<div class="comment__body"><p>The <em>select</em> example finally made this click.</p></div>
</div>`

func newTestFetcher() *DetailFetcher {
	return NewDetailFetcher(time.Second, time.Second, time.Second, NopPacer{}, testLogger)
}

func TestFetchCommentsFirstAttempt(t *testing.T) {
	session := &browser.FakeSession{
		PageFactory: func() *browser.FakePage {
			return &browser.FakePage{
				SelectorHTML: map[string][]string{"#comments": {commentsMarkup}},
			}
		},
	}

	comments, err := newTestFetcher().FetchComments(context.Background(), session, "https://dev.to/alice/post", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		"Great writeup, thanks!",
		"The select example finally made this click.",
	}
	if len(comments) != len(want) {
		t.Fatalf("comments = %v, want %v", comments, want)
	}
	for i := range want {
		if comments[i] != want[i] {
			t.Errorf("comments[%d] = %q, want %q", i, comments[i], want[i])
		}
	}
	if len(session.Pages) != 1 {
		t.Fatalf("opened %d pages, want 1", len(session.Pages))
	}
	if session.Pages[0].CloseCalls != 1 {
		t.Errorf("page closed %d times, want 1", session.Pages[0].CloseCalls)
	}
}

// Two failed navigations followed by a success: the third attempt's
// comments come back, and every attempt's page is closed exactly once.
func TestFetchCommentsRetriesThenSucceeds(t *testing.T) {
	attempt := 0
	session := &browser.FakeSession{
		PageFactory: func() *browser.FakePage {
			attempt++
			p := &browser.FakePage{
				SelectorHTML: map[string][]string{"#comments": {commentsMarkup}},
			}
			if attempt <= 2 {
				p.NavigateErr = errors.New("net::ERR_TIMED_OUT")
			}
			return p
		},
	}

	comments, err := newTestFetcher().FetchComments(context.Background(), session, "https://dev.to/alice/post", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(comments) != 2 {
		t.Errorf("got %d comments, want 2", len(comments))
	}
	if len(session.Pages) != 3 {
		t.Fatalf("opened %d pages, want 3", len(session.Pages))
	}
	for i, p := range session.Pages {
		if p.CloseCalls != 1 {
			t.Errorf("page %d closed %d times, want 1", i, p.CloseCalls)
		}
	}
}

func TestFetchCommentsExhaustsRetries(t *testing.T) {
	session := &browser.FakeSession{
		PageFactory: func() *browser.FakePage {
			return &browser.FakePage{NavigateErr: errors.New("net::ERR_CONNECTION_RESET")}
		},
	}

	comments, err := newTestFetcher().FetchComments(context.Background(), session, "https://dev.to/alice/post", 3)
	if !errors.Is(err, types.ErrMaxRetries) {
		t.Fatalf("error = %v, want ErrMaxRetries", err)
	}
	if comments == nil || len(comments) != 0 {
		t.Errorf("comments = %#v, want empty non-nil slice", comments)
	}
	if len(session.Pages) != 3 {
		t.Fatalf("opened %d pages, want exactly 3", len(session.Pages))
	}
	for i, p := range session.Pages {
		if p.CloseCalls != 1 {
			t.Errorf("page %d closed %d times, want 1", i, p.CloseCalls)
		}
	}
}

// A network-idle timeout is not a failed attempt.
func TestFetchCommentsIdleTimeoutNonFatal(t *testing.T) {
	session := &browser.FakeSession{
		PageFactory: func() *browser.FakePage {
			return &browser.FakePage{
				WaitIdleErr:  errors.New("idle wait timed out"),
				SelectorHTML: map[string][]string{"#comments": {commentsMarkup}},
			}
		},
	}

	comments, err := newTestFetcher().FetchComments(context.Background(), session, "https://dev.to/alice/post", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(comments) != 2 {
		t.Errorf("got %d comments, want 2", len(comments))
	}
	if len(session.Pages) != 1 {
		t.Errorf("opened %d pages, want 1", len(session.Pages))
	}
}

// A page without a comments container yields an empty thread, not a retry.
func TestFetchCommentsContainerAbsent(t *testing.T) {
	session := &browser.FakeSession{
		PageFactory: func() *browser.FakePage {
			return &browser.FakePage{WaitVisibleErr: errors.New("element not found")}
		},
	}

	comments, err := newTestFetcher().FetchComments(context.Background(), session, "https://dev.to/alice/post", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if comments == nil || len(comments) != 0 {
		t.Errorf("comments = %#v, want empty non-nil slice", comments)
	}
	if len(session.Pages) != 1 {
		t.Errorf("opened %d pages, want 1", len(session.Pages))
	}
}

func TestParseCommentsOrder(t *testing.T) {
	markup := `<div id="comments">
		<div class="comment__body">first</div>
		<div class="comment__body">second</div>
		<div class="comment__body">third</div>
	</div>`

	comments, err := parseComments(markup)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"first", "second", "third"}
	if len(comments) != len(want) {
		t.Fatalf("comments = %v, want %v", comments, want)
	}
	for i := range want {
		if comments[i] != want[i] {
			t.Errorf("comments[%d] = %q, want %q", i, comments[i], want[i])
		}
	}
}

func TestParseCommentsEmptyContainer(t *testing.T) {
	comments, err := parseComments(`<div id="comments"></div>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(comments) != 0 {
		t.Errorf("got %d comments, want 0", len(comments))
	}
}
