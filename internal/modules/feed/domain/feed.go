package domain

// FeedConfig describes the announcement RSS feed
type FeedConfig struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Link        string `json:"link"`
	Limit       int    `json:"limit"`
}

// DefaultFeedConfig is used when nothing else is configured
func DefaultFeedConfig() FeedConfig {
	return FeedConfig{
		Title:       "New channels",
		Description: "Channels announced by channel-telltale",
		Limit:       50,
	}
}
