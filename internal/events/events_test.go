package events

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/ppiankov/geolore/internal/cache"
	"github.com/ppiankov/geolore/internal/model"
)

type fakeFeed struct {
	events []model.RawEvent
	err    error
	calls  int32
}

func (f *fakeFeed) FetchDayEvents(ctx context.Context, month, day int) ([]model.RawEvent, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.err != nil {
		return nil, f.err
	}
	return f.events, nil
}

type fakeCoords struct {
	mu     sync.Mutex
	coords map[string]model.LngLat
	asked  []string
}

func (f *fakeCoords) LookupCoordinates(ctx context.Context, title string) (model.LngLat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.asked = append(f.asked, title)
	c, ok := f.coords[title]
	if !ok {
		return model.LngLat{}, errors.New("no coordinates")
	}
	return c, nil
}

func pages(titles ...string) []model.EventPage {
	out := make([]model.EventPage, len(titles))
	for i, t := range titles {
		out[i] = model.EventPage{Title: t}
	}
	return out
}

func num(s string) model.RawYear  { return model.RawYear{Text: s} }
func text(s string) model.RawYear { return model.RawYear{Text: s, Textual: true} }

func TestFetchEvents(t *testing.T) {
	feed := &fakeFeed{events: []model.RawEvent{
		{Year: num("1969"), Text: "Apollo 11 lands on the Moon.[1]", Pages: pages("Apollo_11")},
		{Year: text("44 BC"), Text: " Caesar is assassinated. [note 2]", Pages: pages("Assassination_of_Julius_Caesar", "Rome")},
		{Year: num("1500"), Text: "Nowhere event", Pages: pages("A", "B", "C", "D")},
		{Year: text("unknown"), Text: "No year", Pages: pages("Apollo_11")},
		{Year: num("2000"), Text: "No pages"},
		{Year: num("1900"), Text: "Null island", Pages: pages("Null")},
	}}
	coords := &fakeCoords{coords: map[string]model.LngLat{
		"Apollo_11": {-80.6041, 28.6083},
		"Rome":      {12.4964, 41.9028},
		"D":         {1, 1},
		"Null":      {0, 0},
	}}

	n := New(feed, coords, cache.NewMemoryCache(0, 0), WithWorkers(3))
	evs, err := n.FetchEvents(context.Background(), 3, 15)
	if err != nil {
		t.Fatalf("FetchEvents failed: %v", err)
	}
	if len(evs) != 2 {
		t.Fatalf("expected 2 located events, got %d: %+v", len(evs), evs)
	}

	apollo, caesar := evs[0], evs[1]
	if apollo.Year != 1969 || apollo.Text != "Apollo 11 lands on the Moon." || apollo.Title != "Apollo_11" {
		t.Errorf("unexpected first event: %+v", apollo)
	}
	if caesar.Year != -44 || caesar.Text != "Caesar is assassinated." {
		t.Errorf("unexpected BC event: %+v", caesar)
	}
	if caesar.Title != "Assassination_of_Julius_Caesar" {
		t.Errorf("expected the primary page as title, got %q", caesar.Title)
	}
	if caesar.Coordinates != (model.LngLat{12.4964, 41.9028}) {
		t.Errorf("expected fallback page coordinates, got %v", caesar.Coordinates)
	}
	if !caesar.OriginalYear.Textual || caesar.OriginalYear.Text != "44 BC" {
		t.Errorf("expected original year to be kept, got %+v", caesar.OriginalYear)
	}

	for _, title := range coords.asked {
		if title == "D" {
			t.Error("expected at most three pages to be tried")
		}
	}
}

func TestFetchEvents_MemoizedPerDay(t *testing.T) {
	feed := &fakeFeed{events: []model.RawEvent{
		{Year: num("1969"), Text: "x", Pages: pages("Apollo_11")},
	}}
	coords := &fakeCoords{coords: map[string]model.LngLat{"Apollo_11": {-80.6, 28.6}}}
	n := New(feed, coords, cache.NewMemoryCache(0, 0))

	first, _ := n.FetchEvents(context.Background(), 7, 20)
	first[0].Text = "mutated"
	second, _ := n.FetchEvents(context.Background(), 7, 20)

	if atomic.LoadInt32(&feed.calls) != 1 {
		t.Errorf("expected one feed call, got %d", feed.calls)
	}
	if second[0].Text != "x" {
		t.Error("expected cached events to be copies")
	}

	_, _ = n.FetchEvents(context.Background(), 7, 21)
	if atomic.LoadInt32(&feed.calls) != 2 {
		t.Errorf("expected another day to hit the feed, got %d calls", feed.calls)
	}
}

func TestFetchEvents_FeedFailureNotCached(t *testing.T) {
	feed := &fakeFeed{err: errors.New("503")}
	n := New(feed, &fakeCoords{}, cache.NewMemoryCache(0, 0))

	evs, err := n.FetchEvents(context.Background(), 1, 1)
	if err != nil {
		t.Fatalf("expected feed failure to be absorbed, got %v", err)
	}
	if evs == nil || len(evs) != 0 {
		t.Errorf("expected an empty slice, got %#v", evs)
	}

	feed.err = nil
	_, _ = n.FetchEvents(context.Background(), 1, 1)
	if atomic.LoadInt32(&feed.calls) != 2 {
		t.Errorf("expected the failure to be retried, got %d calls", feed.calls)
	}
}

func TestFetchEvents_InvalidDate(t *testing.T) {
	feed := &fakeFeed{}
	n := New(feed, &fakeCoords{}, cache.NewMemoryCache(0, 0))

	for _, d := range [][2]int{{0, 1}, {13, 1}, {2, 30}, {4, 31}, {1, 0}} {
		if _, err := n.FetchEvents(context.Background(), d[0], d[1]); err == nil {
			t.Errorf("expected error for %02d/%02d", d[0], d[1])
		}
	}
	if _, err := n.FetchEvents(context.Background(), 2, 29); err != nil {
		t.Errorf("expected 02/29 to be valid, got %v", err)
	}
	if feed.calls != 1 {
		t.Errorf("expected only the valid date to reach the feed, got %d", feed.calls)
	}
}

func TestJitter_SeparatesColocatedEvents(t *testing.T) {
	evs := []model.HistoricalEvent{
		{Title: "a", Coordinates: model.LngLat{10.00001, 20}},
		{Title: "lone", Coordinates: model.LngLat{30, 40}},
		{Title: "b", Coordinates: model.LngLat{10.00002, 20}},
	}
	origA, origB := evs[0].Coordinates, evs[2].Coordinates

	Jitter(evs)

	if evs[1].Coordinates != (model.LngLat{30, 40}) {
		t.Errorf("expected lone event untouched, got %v", evs[1].Coordinates)
	}
	if evs[0].Coordinates == evs[2].Coordinates {
		t.Error("expected co-located events to be separated")
	}

	da := distance(origA, evs[0].Coordinates)
	db := distance(origB, evs[2].Coordinates)
	if math.Abs(da-JitterRadius) > 1e-9 || math.Abs(db-JitterRadius) > 1e-9 {
		t.Errorf("expected both displaced by %v, got %v and %v", JitterRadius, da, db)
	}

	// two members sit at opposite angles
	dxA, dxB := evs[0].Coordinates[0]-origA[0], evs[2].Coordinates[0]-origB[0]
	if math.Abs(dxA+dxB) > 1e-9 || dxA <= 0 {
		t.Errorf("expected complementary displacements, got %v and %v", dxA, dxB)
	}
}

func distance(a, b model.LngLat) float64 {
	return math.Hypot(a[0]-b[0], a[1]-b[1])
}

func TestParseYear(t *testing.T) {
	tests := []struct {
		in   model.RawYear
		want int
		ok   bool
	}{
		{num("1969"), 1969, true},
		{num("-300"), -300, true},
		{text("44 BC"), -44, true},
		{text("c. 1200"), 0, false},
		{text("1066"), 1066, true},
		{num(""), 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseYear(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseYear(%+v) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestValidCoordinates(t *testing.T) {
	cases := []struct {
		c    model.LngLat
		want bool
	}{
		{model.LngLat{0, 0}, false},
		{model.LngLat{0, 51.5}, true},
		{model.LngLat{-80.6, 28.6}, true},
		{model.LngLat{10, 95}, false},
		{model.LngLat{200, 10}, false},
	}
	for _, c := range cases {
		if got := ValidCoordinates(c.c); got != c.want {
			t.Errorf("ValidCoordinates(%v) = %v, want %v", c.c, got, c.want)
		}
	}
}
