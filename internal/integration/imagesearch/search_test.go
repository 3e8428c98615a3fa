package imagesearch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	sharedErrors "github.com/reshetovitsme/channel-telltale/internal/shared/errors"
)

type mockHTTPClient struct {
	body     string
	status   int
	err      error
	requests []*http.Request
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	status := m.status
	if status == 0 {
		status = http.StatusOK
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(m.body)),
	}, nil
}

func silentLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func first(int) int { return 0 }

func TestContentSize(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"512 B", 512},
		{"2 KB", 2048},
		{"1.5 MB", 1572864},
		{"1 GB", 1073741824},
		{"", 0},
		{"lots", 0},
		{"x KB", 0},
	}
	for _, tt := range tests {
		if got := ContentSize(tt.in); got != tt.want {
			t.Errorf("ContentSize(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestBingRandom(t *testing.T) {
	body := `{"value":[
		{"contentUrl":"http://img/big.jpg","contentSize":"900 KB"},
		{"contentUrl":"http://img/shown.jpg","contentSize":"10 KB"},
		{"contentUrl":"http://img/ok.jpg","contentSize":"100 KB"}
	]}`

	client := &mockHTTPClient{body: body}
	b := NewBing(client, "secret", silentLogger())
	b.intn = first

	got, err := b.Random(context.Background(), []string{"cute", "dogs"}, Options{
		MaxSizeInBytes: 2 * 1024 * 104,
		Exclude:        []string{"http://img/shown.jpg"},
	})
	if err != nil {
		t.Fatalf("Random: %v", err)
	}
	if got != "http://img/ok.jpg" {
		t.Errorf("Random = %q, want the only small, unseen image", got)
	}

	req := client.requests[0]
	if key := req.Header.Get("Ocp-Apim-Subscription-Key"); key != "secret" {
		t.Errorf("subscription key header = %q", key)
	}
	q := req.URL.Query()
	if q.Get("q") != "cute dogs" || q.Get("safeSearch") != "Strict" || q.Get("mkt") != "en-US" {
		t.Errorf("unexpected query %v", q)
	}
}

func TestBingRandomNoImage(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		terms []string
	}{
		{name: "no results", body: `{"value":[]}`, terms: []string{"x"}},
		{name: "all excluded", body: `{"value":[{"contentUrl":"http://img/a.jpg"}]}`, terms: []string{"x"}},
		{name: "no terms", body: `{"value":[{"contentUrl":"http://img/b.jpg"}]}`, terms: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBing(&mockHTTPClient{body: tt.body}, "k", silentLogger())
			_, err := b.Random(context.Background(), tt.terms, Options{Exclude: []string{"http://img/a.jpg"}})
			if !errors.Is(err, sharedErrors.ErrNoImage) {
				t.Errorf("error = %v, want ErrNoImage", err)
			}
		})
	}
}

func TestBingRandomHTTPFailure(t *testing.T) {
	b := NewBing(&mockHTTPClient{status: http.StatusUnauthorized, body: "{}"}, "k", silentLogger())
	_, err := b.Random(context.Background(), []string{"x"}, Options{})
	if err == nil || errors.Is(err, sharedErrors.ErrNoImage) {
		t.Errorf("error = %v, want an upstream failure", err)
	}
}

func TestGiphyRandom(t *testing.T) {
	body := `{"data":[
		{"images":{"fixed_height_downsampled":{"url":"http://gif/huge.gif","size":"999999"}}},
		{"images":{"fixed_height_downsampled":{"url":"http://gif/ok.gif","size":"1000"}}}
	]}`
	client := &mockHTTPClient{body: body}
	g := NewGiphy(client, "gk", silentLogger())
	g.intn = first

	got, err := g.Random(context.Background(), []string{"pug"}, Options{MaxSizeInBytes: 5000})
	if err != nil {
		t.Fatalf("Random: %v", err)
	}
	if got != "http://gif/ok.gif" {
		t.Errorf("Random = %q", got)
	}

	q := client.requests[0].URL.Query()
	if q.Get("api_key") != "gk" || q.Get("lang") != "en" || q.Get("rating") != "G" {
		t.Errorf("unexpected query %v", q)
	}
}

type stubSearcher struct {
	url string
	err error
}

func (s stubSearcher) Random(context.Context, []string, Options) (string, error) {
	return s.url, s.err
}

func TestFallback(t *testing.T) {
	f := NewFallback(silentLogger(),
		stubSearcher{err: errors.New("quota exceeded")},
		stubSearcher{err: sharedErrors.ErrNoImage},
		stubSearcher{url: "http://third/img.png"},
	)
	got, err := f.Random(context.Background(), []string{"x"}, Options{})
	if err != nil || got != "http://third/img.png" {
		t.Errorf("Random = %q, %v", got, err)
	}

	empty := NewFallback(silentLogger(), stubSearcher{err: errors.New("down")})
	if _, err := empty.Random(context.Background(), []string{"x"}, Options{}); !errors.Is(err, sharedErrors.ErrNoImage) {
		t.Errorf("error = %v, want ErrNoImage", err)
	}
}
