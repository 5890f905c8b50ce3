package wikiapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/geolore/internal/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(model.WikiConfig{BaseURL: server.URL, UserAgent: "geolore-test/1.0"})
}

func TestQueryCanonicalSummary(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/w/api.php" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("action") != "query" || q.Get("redirects") != "1" || q.Get("pithumbsize") != "800" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		if got := r.Header.Get("User-Agent"); got != "geolore-test/1.0" {
			t.Errorf("expected User-Agent header, got %q", got)
		}
		if q.Get("titles") != "Paris city" {
			t.Errorf("unexpected titles: %q", q.Get("titles"))
		}
		_, _ = w.Write([]byte(`{"query":{"pages":{"22989":{"pageid":22989,"title":"Paris","extract":"Paris is the capital of France.",
			"thumbnail":{"source":"https://img/thumb.jpg"},"original":{"source":"https://img/full.jpg"}}}}}`))
	})

	summary, err := client.QueryCanonicalSummary(context.Background(), "Paris city")
	if err != nil {
		t.Fatalf("QueryCanonicalSummary failed: %v", err)
	}
	if summary.Title != "Paris" {
		t.Errorf("expected canonical title Paris, got %q", summary.Title)
	}
	if summary.ImageURL != "https://img/full.jpg" {
		t.Errorf("expected original image preferred, got %q", summary.ImageURL)
	}
	if summary.Extract != "Paris is the capital of France." {
		t.Errorf("unexpected extract: %q", summary.Extract)
	}
}

func TestQueryCanonicalSummary_Missing(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"query":{"pages":{"-1":{"ns":0,"title":"Nowhere River","missing":""}}}}`))
	})

	_, err := client.QueryCanonicalSummary(context.Background(), "Nowhere River")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestQueryCanonicalSummary_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.QueryCanonicalSummary(context.Background(), "Paris")
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("expected a transport error, got %v", err)
	}
	if err != nil && !strings.Contains(err.Error(), "503") {
		t.Errorf("expected status in error, got %v", err)
	}
}

func TestFetchLeadMarkup(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr error
	}{
		{
			name: "formatversion 2",
			body: `{"parse":{"title":"Rhine","pageid":1,"wikitext":"{{Infobox river\n| name = Rhine\n}}"}}`,
			want: "{{Infobox river\n| name = Rhine\n}}",
		},
		{
			name: "legacy object",
			body: `{"parse":{"title":"Rhine","wikitext":{"*":"{{Infobox river}}"}}}`,
			want: "{{Infobox river}}",
		},
		{
			name:    "missing title",
			body:    `{"error":{"code":"missingtitle","info":"The page you specified doesn't exist."}}`,
			wantErr: ErrNotFound,
		},
		{
			name:    "no wikitext",
			body:    `{"parse":{"title":"Rhine"}}`,
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				q := r.URL.Query()
				if q.Get("action") != "parse" || q.Get("section") != "0" || q.Get("formatversion") != "2" {
					t.Errorf("unexpected query: %s", r.URL.RawQuery)
				}
				_, _ = w.Write([]byte(tt.body))
			})

			lead, err := client.FetchLeadMarkup(context.Background(), "Rhine")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("FetchLeadMarkup failed: %v", err)
			}
			if lead.Markup != tt.want || lead.Title != "Rhine" {
				t.Errorf("unexpected lead: %+v", lead)
			}
		})
	}
}

func TestFetchLeadMarkup_OtherAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":{"code":"ratelimited","info":"slow down"}}`))
	})

	_, err := client.FetchLeadMarkup(context.Background(), "Rhine")
	if err == nil || errors.Is(err, ErrNotFound) || !strings.Contains(err.Error(), "ratelimited") {
		t.Errorf("expected ratelimited error, got %v", err)
	}
}

func TestLookupCoordinates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("titles") {
		case "Apollo 11":
			_, _ = w.Write([]byte(`{"query":{"pages":{"662":{"title":"Apollo 11","coordinates":[{"lat":28.6083,"lon":-80.6041,"primary":""}]}}}}`))
		default:
			_, _ = w.Write([]byte(`{"query":{"pages":{"5":{"title":"Abstract idea"}}}}`))
		}
	})

	coords, err := client.LookupCoordinates(context.Background(), "Apollo 11")
	if err != nil {
		t.Fatalf("LookupCoordinates failed: %v", err)
	}
	if coords.Lng() != -80.6041 || coords.Lat() != 28.6083 {
		t.Errorf("expected [lng, lat] order, got %v", coords)
	}

	if _, err := client.LookupCoordinates(context.Background(), "Abstract idea"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFetchDayEvents(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/rest_v1/feed/onthisday/events/07/04" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"events":[
			{"text":"Independence declared.","year":1776,"pages":[{"title":"Philadelphia","thumbnail":{"source":"https://img/t.jpg","width":320,"height":200}}]},
			{"text":"Battle.","year":"44 BC","pages":[]}
		]}`))
	})

	events, err := client.FetchDayEvents(context.Background(), 7, 4)
	if err != nil {
		t.Fatalf("FetchDayEvents failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Year.Text != "1776" || events[0].Year.Textual {
		t.Errorf("unexpected numeric year: %+v", events[0].Year)
	}
	if events[1].Year.Text != "44 BC" || !events[1].Year.Textual {
		t.Errorf("unexpected textual year: %+v", events[1].Year)
	}
	if events[0].Pages[0].Thumbnail == nil || events[0].Pages[0].Thumbnail.Width != 320 {
		t.Errorf("unexpected page: %+v", events[0].Pages[0])
	}
}

func TestFetchDayEvents_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	if _, err := client.FetchDayEvents(context.Background(), 2, 30); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestClient_BodyLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"events":[{"text":"` + strings.Repeat("x", 1024) + `"}]}`))
	}))
	defer server.Close()

	client := New(model.WikiConfig{BaseURL: server.URL, MaxBodyBytes: 64})
	if _, err := client.FetchDayEvents(context.Background(), 1, 1); err == nil {
		t.Error("expected decode error for truncated body")
	}
}

func TestClient_HostRateOverride(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte(`{"events":[]}`))
	}))
	defer server.Close()

	host := strings.TrimPrefix(server.URL, "http://")
	client := New(model.WikiConfig{
		BaseURL:   server.URL,
		Burst:     1,
		HostRates: map[string]float64{host: 0.01},
	})

	if _, err := client.FetchDayEvents(context.Background(), 7, 20); err != nil {
		t.Fatalf("first request failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := client.FetchDayEvents(ctx, 7, 21); err == nil {
		t.Error("expected the second request to be throttled by the host override")
	}
	if atomic.LoadInt32(&hits) != 1 {
		t.Errorf("expected 1 request to reach the server, got %d", hits)
	}
}

func TestClient_RespectsRobots(t *testing.T) {
	var apiHits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			_, _ = w.Write([]byte("User-agent: geolore\nDisallow: /w/\n"))
			return
		}
		atomic.AddInt32(&apiHits, 1)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := New(model.WikiConfig{BaseURL: server.URL, UserAgent: "geolore/1.0", RespectRobots: true})
	_, err := client.QueryCanonicalSummary(context.Background(), "Paris")
	if !errors.Is(err, ErrDisallowed) {
		t.Errorf("expected ErrDisallowed, got %v", err)
	}
	if atomic.LoadInt32(&apiHits) != 0 {
		t.Errorf("expected no API requests, got %d", apiHits)
	}
}
