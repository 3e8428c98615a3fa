package di

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/reshetovitsme/channel-telltale/internal/integration/imagesearch"
	channelRepo "github.com/reshetovitsme/channel-telltale/internal/modules/channel/repository"
	channelService "github.com/reshetovitsme/channel-telltale/internal/modules/channel/service"
	dialogRepo "github.com/reshetovitsme/channel-telltale/internal/modules/dialog/repository"
	dialogService "github.com/reshetovitsme/channel-telltale/internal/modules/dialog/service"
	eastereggService "github.com/reshetovitsme/channel-telltale/internal/modules/easteregg/service"
	feedDomain "github.com/reshetovitsme/channel-telltale/internal/modules/feed/domain"
	feedService "github.com/reshetovitsme/channel-telltale/internal/modules/feed/service"
	interactionService "github.com/reshetovitsme/channel-telltale/internal/modules/interaction/service"
	messageRepo "github.com/reshetovitsme/channel-telltale/internal/modules/message/repository"
	messageService "github.com/reshetovitsme/channel-telltale/internal/modules/message/service"
	userRepo "github.com/reshetovitsme/channel-telltale/internal/modules/user/repository"
	userService "github.com/reshetovitsme/channel-telltale/internal/modules/user/service"
	"github.com/reshetovitsme/channel-telltale/internal/shared/config"
	"github.com/reshetovitsme/channel-telltale/internal/shared/kvstore"
	"github.com/reshetovitsme/channel-telltale/internal/shared/messaging"
	"github.com/reshetovitsme/channel-telltale/internal/shared/metrics"
	httpServer "github.com/reshetovitsme/channel-telltale/internal/transport/http"
	slackClient "github.com/reshetovitsme/channel-telltale/internal/transport/slack"
	"github.com/reshetovitsme/channel-telltale/internal/transport/telegram"
	"github.com/samber/do/v2"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

const imageSearchTimeout = 10 * time.Second

// Setup initializes the dependency injection container. The config loader is
// the only provider that can be swapped, which is how tests avoid the environment.
func Setup(logger *slog.Logger, loadConfig func() (*config.Config, error)) (do.Injector, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if loadConfig == nil {
		loadConfig = config.Load
	}

	injector := do.New()
	do.ProvideValue(injector, logger)

	do.Provide(injector, func(i do.Injector) (*config.Config, error) {
		cfg, err := loadConfig()
		if err != nil {
			return nil, oops.With("context", "failed to load config").Wrap(err)
		}
		return cfg, nil
	})

	do.Provide(injector, func(i do.Injector) (*prometheus.Registry, error) {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		return reg, nil
	})

	do.Provide(injector, func(i do.Injector) (*metrics.Metrics, error) {
		return metrics.New(do.MustInvoke[*prometheus.Registry](i)), nil
	})

	// Key value store: Redis when configured, process memory otherwise
	do.Provide(injector, func(i do.Injector) (kvstore.Store, error) {
		cfg := do.MustInvoke[*config.Config](i)
		log := do.MustInvoke[*slog.Logger](i)
		if cfg.RedisURL == "" {
			log.Warn("REDIS_URL not set, dedup markers and dialogs are kept in memory")
			return kvstore.NewMemory(), nil
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		store, err := kvstore.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, oops.With("context", "failed to connect to redis").Wrap(err)
		}
		return store, nil
	})

	do.Provide(injector, func(i do.Injector) (messaging.Client, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return slackClient.New(cfg.SlackBotToken, do.MustInvoke[*slog.Logger](i)), nil
	})

	do.Provide(injector, func(i do.Injector) (channelRepo.Repository, error) {
		return channelRepo.NewKVStorage(do.MustInvoke[kvstore.Store](i)), nil
	})

	do.Provide(injector, func(i do.Injector) (userRepo.Repository, error) {
		return userRepo.NewKVStorage(do.MustInvoke[kvstore.Store](i)), nil
	})

	do.Provide(injector, func(i do.Injector) (dialogRepo.Repository, error) {
		return dialogRepo.NewKVStorage(do.MustInvoke[kvstore.Store](i)), nil
	})

	do.Provide(injector, func(i do.Injector) (messageRepo.Repository, error) {
		cfg := do.MustInvoke[*config.Config](i)
		repo, err := messageRepo.NewFileStorage(cfg.StoragePath, do.MustInvoke[*slog.Logger](i))
		if err != nil {
			return nil, oops.With("storage_path", cfg.StoragePath, "context", "failed to initialize announcement repository").Wrap(err)
		}
		return repo, nil
	})

	do.Provide(injector, func(i do.Injector) (*messageService.Service, error) {
		return messageService.New(do.MustInvoke[messageRepo.Repository](i)), nil
	})

	do.Provide(injector, func(i do.Injector) (*userService.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return userService.New(
			do.MustInvoke[userRepo.Repository](i),
			do.MustInvoke[messaging.Client](i),
			cfg.Interests,
			do.MustInvoke[*slog.Logger](i),
		), nil
	})

	do.Provide(injector, func(i do.Injector) (*feedService.Service, error) {
		return feedService.New(feedDomain.DefaultFeedConfig(), do.MustInvoke[*messageService.Service](i)), nil
	})

	do.Provide(injector, func(i do.Injector) (imagesearch.Searcher, error) {
		cfg := do.MustInvoke[*config.Config](i)
		log := do.MustInvoke[*slog.Logger](i)
		client := &http.Client{Timeout: imageSearchTimeout}

		var searchers []imagesearch.Searcher
		if cfg.BingAPIKey != "" {
			searchers = append(searchers, imagesearch.NewBing(client, cfg.BingAPIKey, log))
		}
		if cfg.GiphyAPIKey != "" {
			searchers = append(searchers, imagesearch.NewGiphy(client, cfg.GiphyAPIKey, log))
		}
		return imagesearch.NewFallback(log, searchers...), nil
	})

	do.Provide(injector, func(i do.Injector) (*dialogService.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)
		log := do.MustInvoke[*slog.Logger](i)

		gen := dialogService.NewGenerator(do.MustInvoke[imagesearch.Searcher](i), nil, log)
		gen.SetMaxImageSize(cfg.ImageMaxSizeBytes)

		svc := dialogService.New(
			gen,
			do.MustInvoke[dialogRepo.Repository](i),
			do.MustInvoke[messaging.Client](i),
			lo.Uniq(append(cfg.Routing.Prefixes(), cfg.AlwaysInterestingPrefixes...)),
			log,
		)
		svc.SetMetrics(do.MustInvoke[*metrics.Metrics](i))
		return svc, nil
	})

	do.Provide(injector, func(i do.Injector) (*eastereggService.Service, error) {
		return eastereggService.New(
			do.MustInvoke[*userService.Service](i),
			do.MustInvoke[messaging.Client](i),
			do.MustInvoke[*slog.Logger](i),
		), nil
	})

	do.Provide(injector, func(i do.Injector) (*telegram.Mirror, error) {
		cfg := do.MustInvoke[*config.Config](i)
		m, err := telegram.New(cfg.TelegramBotToken, cfg.TelegramChatID, do.MustInvoke[*slog.Logger](i))
		if err != nil {
			return nil, oops.With("context", "failed to create telegram mirror").Wrap(err)
		}
		return m, nil
	})

	do.Provide(injector, func(i do.Injector) (*channelService.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)
		svc := channelService.New(
			channelConfig(cfg),
			do.MustInvoke[channelRepo.Repository](i),
			do.MustInvoke[messaging.Client](i),
			do.MustInvoke[*userService.Service](i),
			do.MustInvoke[*slog.Logger](i),
		)
		svc.SetMetrics(do.MustInvoke[*metrics.Metrics](i))
		svc.SetHistory(do.MustInvoke[*messageService.Service](i))

		if cfg.MirrorEnabled() {
			m, err := do.Invoke[*telegram.Mirror](i)
			if err != nil {
				return nil, err
			}
			svc.SetMirror(m)
		}
		if cfg.ImageSearchEnabled() {
			svc.AddHook(do.MustInvoke[*dialogService.Service](i))
		}
		if cfg.AprilFoolsEnabled {
			svc.AddHook(do.MustInvoke[*eastereggService.Service](i))
		}
		return svc, nil
	})

	do.Provide(injector, func(i do.Injector) (*interactionService.Dispatcher, error) {
		cfg := do.MustInvoke[*config.Config](i)

		// Disabled flows must stay untyped nil so the dispatcher can tell them apart
		var dialog, easterEgg interactionService.ClickHandler
		if cfg.ImageSearchEnabled() {
			dialog = do.MustInvoke[*dialogService.Service](i)
		}
		if cfg.AprilFoolsEnabled {
			easterEgg = do.MustInvoke[*eastereggService.Service](i)
		}
		return interactionService.New(dialog, easterEgg, do.MustInvoke[messaging.Client](i), do.MustInvoke[*slog.Logger](i)), nil
	})

	do.Provide(injector, func(i do.Injector) (*httpServer.Server, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return httpServer.New(
			httpServer.Config{Port: cfg.HTTPPort, SigningSecret: cfg.SlackSigningSecret},
			do.MustInvoke[*channelService.Service](i),
			do.MustInvoke[*interactionService.Dispatcher](i),
			do.MustInvoke[*feedService.Service](i),
			do.MustInvoke[*prometheus.Registry](i),
			do.MustInvoke[*slog.Logger](i),
		), nil
	})

	return injector, nil
}

func channelConfig(cfg *config.Config) channelService.Config {
	return channelService.Config{
		Routing:              cfg.Routing,
		AlwaysInteresting:    cfg.AlwaysInterestingPrefixes,
		DedupTTL:             cfg.DedupTTL,
		IssueTrackerURL:      cfg.JiraURL,
		PurposeRetryAttempts: cfg.PurposeRetryAttempts,
		PurposeRetryDelay:    cfg.PurposeRetryDelay,
	}
}

// Shutdown gracefully shuts down all services
func Shutdown(ctx context.Context, injector do.Injector) error {
	var errs []error

	if server, err := do.Invoke[*httpServer.Server](injector); err == nil && server != nil {
		if err := server.Shutdown(ctx); err != nil {
			errs = append(errs, oops.With("context", "http server shutdown").Wrap(err))
		}
	}

	if store, err := do.Invoke[kvstore.Store](injector); err == nil {
		if closer, ok := store.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				errs = append(errs, oops.With("context", "closing key value store").Wrap(err))
			}
		}
	}

	return errors.Join(errs...)
}
