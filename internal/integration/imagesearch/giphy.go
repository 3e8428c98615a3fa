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

// GiphySearchURL is the Giphy GIF search endpoint
const GiphySearchURL = "https://api.giphy.com/v1/gifs/search"

const giphyResultLimit = 50

type giphyRendition struct {
	URL  string `json:"url"`
	Size string `json:"size"`
}

type giphyResult struct {
	Images struct {
		FixedHeightDownsampled giphyRendition `json:"fixed_height_downsampled"`
	} `json:"images"`
}

type giphyResponse struct {
	Data []giphyResult `json:"data"`
}

// Giphy searches GIFs with the Giphy API
type Giphy struct {
	client  HTTPClient
	apiKey  string
	baseURL string
	logger  *slog.Logger
	intn    func(int) int
}

// NewGiphy creates a Giphy searcher
func NewGiphy(client HTTPClient, apiKey string, logger *slog.Logger) *Giphy {
	if logger == nil {
		logger = slog.Default()
	}
	return &Giphy{
		client:  client,
		apiKey:  apiKey,
		baseURL: GiphySearchURL,
		logger:  logger,
		intn:    defaultIntn,
	}
}

func (g *Giphy) Random(ctx context.Context, terms []string, opts Options) (string, error) {
	q := query(terms)
	if q == "" {
		return "", sharedErrors.ErrNoImage
	}
	opts = opts.withDefaults()

	params := url.Values{
		"q":       {q},
		"api_key": {g.apiKey},
		"limit":   {strconv.Itoa(giphyResultLimit)},
		"rating":  {opts.Rating},
		"lang":    {language(opts.Lang)},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", oops.In("giphy").Wrapf(err, "create request")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", oops.In("giphy").With("terms", q).Wrapf(err, "http get")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", oops.In("giphy").With("terms", q, "status", resp.StatusCode).Errorf("unexpected status %d", resp.StatusCode)
	}

	var body giphyResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 5*1024*1024)).Decode(&body); err != nil {
		return "", oops.In("giphy").With("terms", q).Wrapf(err, "decode response")
	}
	g.logger.Debug("Giphy search found images", "terms", q, "count", len(body.Data))

	renditions := lo.Map(body.Data, func(r giphyResult, _ int) giphyRendition {
		return r.Images.FixedHeightDownsampled
	})
	if opts.MaxSizeInBytes > 0 {
		renditions = lo.Filter(renditions, func(r giphyRendition, _ int) bool {
			size, err := strconv.ParseInt(r.Size, 10, 64)
			return err != nil || size < opts.MaxSizeInBytes
		})
	}

	return pick(lo.Map(renditions, func(r giphyRendition, _ int) string { return r.URL }), opts.Exclude, g.intn)
}

// language reduces a market code like "en-US" to the language part Giphy expects
func language(lang string) string {
	code, _, _ := strings.Cut(lang, "-")
	return code
}

var _ Searcher = (*Giphy)(nil)
