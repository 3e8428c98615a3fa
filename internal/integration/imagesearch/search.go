// Package imagesearch finds random images for a set of search terms.
package imagesearch

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"strings"

	sharedErrors "github.com/reshetovitsme/channel-telltale/internal/shared/errors"
	"github.com/samber/lo"
)

// HTTPClient is the interface for performing HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Options narrows a search. Zero values mean "no restriction" except Rating and
// Lang, which default to "G" and "en-US".
type Options struct {
	Rating         string
	Lang           string
	MaxSizeInBytes int64
	Exclude        []string
}

func (o Options) withDefaults() Options {
	if o.Rating == "" {
		o.Rating = "G"
	}
	if o.Lang == "" {
		o.Lang = "en-US"
	}
	return o
}

// Searcher returns one random image URL matching terms, or ErrNoImage
type Searcher interface {
	Random(ctx context.Context, terms []string, opts Options) (string, error)
}

func query(terms []string) string {
	return strings.Join(lo.Compact(terms), " ")
}

// pick chooses a random url that is not excluded
func pick(urls, exclude []string, intn func(int) int) (string, error) {
	candidates := lo.Uniq(lo.Without(lo.Compact(urls), exclude...))
	if len(candidates) == 0 {
		return "", sharedErrors.ErrNoImage
	}
	return candidates[intn(len(candidates))], nil
}

// Fallback tries each searcher in order until one finds an image
type Fallback struct {
	searchers []Searcher
	logger    *slog.Logger
}

// NewFallback chains searchers
func NewFallback(logger *slog.Logger, searchers ...Searcher) *Fallback {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fallback{searchers: searchers, logger: logger}
}

func (f *Fallback) Random(ctx context.Context, terms []string, opts Options) (string, error) {
	for _, s := range f.searchers {
		url, err := s.Random(ctx, terms, opts)
		if err == nil {
			return url, nil
		}
		if !errors.Is(err, sharedErrors.ErrNoImage) {
			f.logger.Warn("Image search failed, trying next provider", "terms", query(terms), "error", err)
		}
	}
	return "", sharedErrors.ErrNoImage
}

func defaultIntn(n int) int {
	return rand.IntN(n)
}
