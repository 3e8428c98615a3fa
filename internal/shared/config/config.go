package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
	"unicode"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	channelDomain "github.com/reshetovitsme/channel-telltale/internal/modules/channel/domain"
	userDomain "github.com/reshetovitsme/channel-telltale/internal/modules/user/domain"
	"github.com/reshetovitsme/channel-telltale/internal/shared/errors"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

type Config struct {
	SlackBotToken        string        `koanf:"slack_bot_token"`
	SlackSigningSecret   string        `koanf:"slack_signing_secret"`
	HTTPPort             string        `koanf:"http_port"`
	RedisURL             string        `koanf:"redis_url"`
	DedupTTL             time.Duration `koanf:"dedup_ttl"`
	JiraURL              string        `koanf:"jira_url"`
	PurposeRetryAttempts uint64        `koanf:"purpose_retry_attempts"`
	PurposeRetryDelay    time.Duration `koanf:"purpose_retry_delay"`
	BingAPIKey           string        `koanf:"bing_api_key"`
	GiphyAPIKey          string        `koanf:"giphy_api_key"`
	ImageMaxSizeBytes    int64         `koanf:"image_max_size_bytes"`
	AprilFoolsEnabled    bool          `koanf:"april_fools_enabled"`
	TelegramBotToken     string        `koanf:"telegram_bot_token"`
	TelegramChatID       string        `koanf:"telegram_chat_id"`
	StoragePath          string        `koanf:"storage_path"`
	LogLevel             string        `koanf:"log_level"`

	Routing                   channelDomain.RoutingTable `koanf:"-"`
	AlwaysInterestingPrefixes []string                   `koanf:"-"`
	Interests                 []userDomain.Interest      `koanf:"-"`
	AppEnv                    AppEnv                     `koanf:"-"`
}

// ImageSearchEnabled reports whether any image search backend has credentials
func (c *Config) ImageSearchEnabled() bool {
	return c.BingAPIKey != "" || c.GiphyAPIKey != ""
}

// MirrorEnabled reports whether announcements should be copied to Telegram
func (c *Config) MirrorEnabled() bool {
	return c.TelegramBotToken != "" && c.TelegramChatID != ""
}

var defaults = map[string]any{
	"http_port":                   "3000",
	"dedup_ttl":                   "1440h",
	"purpose_retry_attempts":      3,
	"purpose_retry_delay":         "1s",
	"image_max_size_bytes":        212992,
	"always_interesting_prefixes": []string{"fun-", "test-"},
	"storage_path":                "./data",
	"log_level":                   "info",
	"app_env":                     "production",
}

func Load() (*Config, error) {
	k := koanf.New(".")

	configFiles := []string{
		"config.yaml",
		"config.yml",
		"config.json",
		"config.toml",
	}

	configFile, found := lo.Find(configFiles, func(file string) bool {
		_, err := os.Stat(file)
		return err == nil
	})

	if found {
		var parser koanf.Parser
		ext := filepath.Ext(configFile)

		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		case ".toml":
			parser = toml.Parser()
		default:
			return nil, oops.Errorf("unsupported config file extension: %s", ext)
		}

		if err := k.Load(file.Provider(configFile), parser); err != nil {
			return nil, oops.With("config_file", configFile).Wrap(err)
		}
	}

	// Environment variables override config file values
	if err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ToLower(s)
	}), nil); err != nil {
		return nil, oops.With("context", "loading environment variables").Wrap(err)
	}

	for key, value := range defaults {
		if !k.Exists(key) {
			_ = k.Set(key, value)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.With("context", "unmarshaling config").Wrap(err)
	}

	if appEnv, err := ParseAppEnv(k.String("app_env")); err == nil {
		cfg.AppEnv = appEnv
	} else {
		cfg.AppEnv = AppEnvProduction
	}

	cfg.AlwaysInterestingPrefixes = stringList(k.Get("always_interesting_prefixes"))

	routing, err := routingTable(k)
	if err != nil {
		return nil, err
	}
	cfg.Routing = routing

	interests, err := userDomain.ParseInterests(k.String("interested_users"))
	if err != nil {
		return nil, oops.With("context", "parsing interested_users").Wrap(err)
	}
	cfg.Interests = interests

	if cfg.SlackBotToken == "" {
		return nil, errors.ErrMissingBotToken
	}

	return &cfg, nil
}

// routingTable reads target_channels, falling back to the single-destination
// target_channel_id + channel_prefixes pair.
func routingTable(k *koanf.Koanf) (channelDomain.RoutingTable, error) {
	var (
		table channelDomain.RoutingTable
		err   error
	)

	switch v := k.Get("target_channels").(type) {
	case nil:
	case string:
		table, err = ParseRoutingTable(v)
	case map[string]any:
		table = channelDomain.RoutingTable{}
		for dest, prefixes := range v {
			table[strings.TrimSpace(dest)] = stringList(prefixes)
		}
	default:
		err = oops.With("type", fmt.Sprintf("%T", v)).Wrap(errors.ErrInvalidRoutingTable)
	}
	if err != nil {
		return nil, err
	}

	if len(table) == 0 {
		if dest := strings.TrimSpace(k.String("target_channel_id")); dest != "" {
			table = channelDomain.RoutingTable{dest: strings.Fields(k.String("channel_prefixes"))}
		}
	}

	if err := validateRoutingTable(table); err != nil {
		return nil, err
	}
	return table, nil
}

func validateRoutingTable(table channelDomain.RoutingTable) error {
	if len(table) == 0 {
		return oops.With("context", "no destination channels configured").Wrap(errors.ErrInvalidRoutingTable)
	}
	for dest, prefixes := range table {
		if dest == "" {
			return oops.With("context", "empty destination channel").Wrap(errors.ErrInvalidRoutingTable)
		}
		if len(prefixes) == 0 {
			return oops.With("destination", dest, "context", "destination has no prefixes").Wrap(errors.ErrInvalidRoutingTable)
		}
	}
	return nil
}

// ParseRoutingTable reads "dest=p1,p2 dest2=p3". A destination listed twice
// gets the union of its prefixes.
func ParseRoutingTable(s string) (channelDomain.RoutingTable, error) {
	table := channelDomain.RoutingTable{}
	for _, entry := range strings.Fields(s) {
		dest, prefixes, found := strings.Cut(entry, "=")
		if !found || dest == "" {
			return nil, oops.With("entry", entry).Wrap(errors.ErrInvalidRoutingTable)
		}

		list := stringList(prefixes)
		if len(list) == 0 {
			return nil, oops.With("entry", entry).Wrap(errors.ErrInvalidRoutingTable)
		}

		merged := lo.Uniq(append(table[dest], list...))
		slices.Sort(merged)
		table[dest] = merged
	}
	return table, nil
}

// stringList accepts a whitespace or comma separated string or a list of values
func stringList(v any) []string {
	var items []string
	switch val := v.(type) {
	case string:
		items = strings.FieldsFunc(val, func(r rune) bool {
			return r == ',' || unicode.IsSpace(r)
		})
	case []string:
		items = val
	case []any:
		items = lo.Map(val, func(item any, _ int) string {
			return fmt.Sprint(item)
		})
	}
	return lo.Compact(lo.Map(items, func(item string, _ int) string {
		return strings.TrimSpace(item)
	}))
}
