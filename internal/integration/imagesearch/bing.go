package imagesearch

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	sharedErrors "github.com/reshetovitsme/channel-telltale/internal/shared/errors"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// BingSearchURL is the Bing image search endpoint
const BingSearchURL = "https://api.cognitive.microsoft.com/bing/v7.0/images/search"

const bingResultCount = 100

type bingResult struct {
	ContentURL  string `json:"contentUrl"`
	ContentSize string `json:"contentSize"`
}

type bingResponse struct {
	Value []bingResult `json:"value"`
}

// Bing searches images with the Bing image search API
type Bing struct {
	client  HTTPClient
	apiKey  string
	baseURL string
	logger  *slog.Logger
	intn    func(int) int
}

// NewBing creates a Bing searcher
func NewBing(client HTTPClient, apiKey string, logger *slog.Logger) *Bing {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bing{
		client:  client,
		apiKey:  apiKey,
		baseURL: BingSearchURL,
		logger:  logger,
		intn:    defaultIntn,
	}
}

func (b *Bing) Random(ctx context.Context, terms []string, opts Options) (string, error) {
	q := query(terms)
	if q == "" {
		return "", sharedErrors.ErrNoImage
	}
	opts = opts.withDefaults()

	results, err := b.search(ctx, q, opts)
	if err != nil {
		return "", err
	}
	b.logger.Debug("Bing search found images", "terms", q, "count", len(results))

	if opts.MaxSizeInBytes > 0 {
		results = lo.Filter(results, func(r bingResult, _ int) bool {
			return ContentSize(r.ContentSize) < opts.MaxSizeInBytes
		})
	}

	return pick(lo.Map(results, func(r bingResult, _ int) string { return r.ContentURL }), opts.Exclude, b.intn)
}

func (b *Bing) search(ctx context.Context, q string, opts Options) ([]bingResult, error) {
	safeSearch := "Moderate"
	if opts.Rating == "G" {
		safeSearch = "Strict"
	}
	params := url.Values{
		"q":          {q},
		"size":       {"large"},
		"safeSearch": {safeSearch},
		"mkt":        {opts.Lang},
		"count":      {strconv.Itoa(bingResultCount)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, oops.In("bing").Wrapf(err, "create request")
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", b.apiKey)

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, oops.In("bing").With("terms", q).Wrapf(err, "http get")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, oops.In("bing").With("terms", q, "status", resp.StatusCode).Errorf("unexpected status %d", resp.StatusCode)
	}

	var body bingResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 5*1024*1024)).Decode(&body); err != nil {
		return nil, oops.In("bing").With("terms", q).Wrapf(err, "decode response")
	}
	return body.Value, nil
}

// ContentSize parses sizes such as "512 B", "12.5 KB" or "2 MB". Unparseable
// or missing sizes count as zero.
func ContentSize(s string) int64 {
	units := []struct {
		suffix string
		factor float64
	}{
		{" GB", 1024 * 1024 * 1024},
		{" MB", 1024 * 1024},
		{" KB", 1024},
		{" B", 1},
	}
	for _, u := range units {
		if n, ok := strings.CutSuffix(s, u.suffix); ok {
			f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
			if err != nil {
				return 0
			}
			return int64(f * u.factor)
		}
	}
	return 0
}

var _ Searcher = (*Bing)(nil)
