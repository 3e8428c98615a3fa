package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/feeds"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	channelDomain "github.com/reshetovitsme/channel-telltale/internal/modules/channel/domain"
	interactionDomain "github.com/reshetovitsme/channel-telltale/internal/modules/interaction/domain"
	"github.com/samber/lo"
	sloghttp "github.com/samber/slog-http"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
)

// AppName is returned by the root endpoint
const AppName = "ChannelTellTale"

const maxBodyBytes = 1 << 20

// EventProcessor consumes channel lifecycle events
type EventProcessor interface {
	ProcessChannelEvent(ctx context.Context, ev channelDomain.ChannelEvent)
}

// ClickHandler consumes interactive button presses
type ClickHandler interface {
	Handle(ctx context.Context, click interactionDomain.Click)
}

// FeedGenerator renders the announcement feed
type FeedGenerator interface {
	GenerateFeed(baseURL string, since time.Time) (*feeds.Feed, error)
}

// Config holds the listener settings
type Config struct {
	Port          string
	SigningSecret string
}

// Server receives Slack webhooks and serves the operational endpoints
type Server struct {
	cfg      Config
	events   EventProcessor
	clicks   ClickHandler
	feed     FeedGenerator
	gatherer prometheus.Gatherer
	logger   *slog.Logger

	dispatch func(func())
	wg       sync.WaitGroup
	server   *http.Server
}

// New creates a new HTTP server
func New(cfg Config, events EventProcessor, clicks ClickHandler, feed FeedGenerator, gatherer prometheus.Gatherer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:      cfg,
		events:   events,
		clicks:   clicks,
		feed:     feed,
		gatherer: gatherer,
		logger:   logger,
	}
	s.dispatch = s.background
	return s
}

// SetDispatcher replaces how webhook work is run once the request is acknowledged
func (s *Server) SetDispatcher(dispatch func(func())) {
	s.dispatch = dispatch
}

func (s *Server) background(fn func()) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		fn()
	}()
}

// Handler builds the routed handler with access logging and panic recovery
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /slack/events", s.handleEvents)
	mux.HandleFunc("POST /slack/interactive", s.handleInteractive)
	mux.HandleFunc("GET /slack/interactive", s.handleInteractiveGet)
	mux.HandleFunc("GET /feed", s.handleFeed)
	mux.HandleFunc("GET /ping", s.handlePing)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /{$}", s.handleRoot)
	if s.gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	handler := sloghttp.Recovery(mux)
	handler = sloghttp.New(s.logger)(handler)
	return handler
}

// Start listens until Shutdown is called
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%s", s.cfg.Port)
	s.logger.Info("HTTP server starting", "addr", addr)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for dispatched work to finish
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	if s.server != nil {
		err = s.server.Shutdown(ctx)
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return err
}

// readVerified reads the request body and checks the Slack signature when a
// signing secret is configured.
func (s *Server) readVerified(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.logger.Error("Failed to read request body", "path", r.URL.Path, "error", err)
		http.Error(w, "Bad request", http.StatusBadRequest)
		return nil, false
	}

	if s.cfg.SigningSecret == "" {
		return body, true
	}

	sv, err := slack.NewSecretsVerifier(r.Header, s.cfg.SigningSecret)
	if err == nil {
		_, _ = sv.Write(body)
		err = sv.Ensure()
	}
	if err != nil {
		s.logger.Error("Rejected request with invalid signature", "path", r.URL.Path, "error", err)
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return nil, false
	}
	return body, true
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readVerified(w, r)
	if !ok {
		return
	}

	event, err := slackevents.ParseEvent(json.RawMessage(body), slackevents.OptionNoVerifyToken())
	if err != nil {
		s.logger.Error("Malformed event payload", "error", err)
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	switch event.Type {
	case slackevents.URLVerification:
		var challenge slackevents.ChallengeResponse
		if err := json.Unmarshal(body, &challenge); err != nil {
			s.logger.Error("Malformed url_verification payload", "error", err)
			http.Error(w, "Bad request", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(challenge.Challenge))
		return
	case slackevents.CallbackEvent:
		if ev, ok := toChannelEvent(event.InnerEvent); ok {
			s.logger.Info("Received channel event", "event_type", ev.Type, "channel_id", ev.ChannelID, "channel_name", ev.ChannelName)
			ctx := context.WithoutCancel(r.Context())
			s.dispatch(func() {
				s.events.ProcessChannelEvent(ctx, ev)
			})
		} else {
			s.logger.Debug("Ignored event", "inner_type", event.InnerEvent.Type)
		}
	default:
		s.logger.Debug("Ignored envelope", "type", event.Type)
	}

	w.WriteHeader(http.StatusOK)
}

func toChannelEvent(inner slackevents.EventsAPIInnerEvent) (channelDomain.ChannelEvent, bool) {
	switch data := inner.Data.(type) {
	case *slackevents.ChannelCreatedEvent:
		return channelDomain.ChannelEvent{
			Type:        channelDomain.EventTypeCreate,
			ChannelID:   data.Channel.ID,
			ChannelName: data.Channel.Name,
			CreatorID:   data.Channel.Creator,
			Created:     int64(data.Channel.Created),
		}, true
	case *slackevents.ChannelRenameEvent:
		return channelDomain.ChannelEvent{
			Type:        channelDomain.EventTypeRename,
			ChannelID:   data.Channel.ID,
			ChannelName: data.Channel.Name,
			Created:     int64(data.Channel.Created),
		}, true
	default:
		return channelDomain.ChannelEvent{}, false
	}
}

func (s *Server) handleInteractive(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readVerified(w, r)
	if !ok {
		return
	}

	form, err := url.ParseQuery(string(body))
	if err != nil || form.Get("payload") == "" {
		s.logger.Error("Interactive request is missing its payload", "error", err)
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	var callback slack.InteractionCallback
	if err := json.Unmarshal([]byte(form.Get("payload")), &callback); err != nil {
		s.logger.Error("Malformed interactive payload", "error", err)
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	click := toClick(callback)
	ctx := context.WithoutCancel(r.Context())
	s.dispatch(func() {
		s.clicks.Handle(ctx, click)
	})

	w.WriteHeader(http.StatusOK)
}

func toClick(cb slack.InteractionCallback) interactionDomain.Click {
	click := interactionDomain.Click{
		ChannelID:  lo.CoalesceOrEmpty(cb.Channel.ID, cb.Container.ChannelID),
		MessageTS:  lo.CoalesceOrEmpty(cb.Container.MessageTs, cb.MessageTs, cb.OriginalMessage.Timestamp),
		UserID:     cb.User.ID,
		UserName:   cb.User.Name,
		CallbackID: cb.CallbackID,
	}

	switch {
	case len(cb.ActionCallback.AttachmentActions) > 0:
		click.Value = cb.ActionCallback.AttachmentActions[0].Value
	case len(cb.ActionCallback.BlockActions) > 0:
		click.Value = cb.ActionCallback.BlockActions[0].Value
	}
	return click
}

func (s *Server) handleInteractiveGet(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "These are not the slackbots you're looking for.", http.StatusNotFound)
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	baseURL := fmt.Sprintf("%s://%s", getScheme(r), r.Host)

	since, err := parseSince(r.URL.Query().Get("since"))
	if err != nil {
		http.Error(w, "Invalid since parameter", http.StatusBadRequest)
		return
	}

	feed, err := s.feed.GenerateFeed(baseURL, since)
	if err != nil {
		s.logger.Error("Error generating feed", "error", err)
		http.Error(w, "Failed to generate feed", http.StatusInternalServerError)
		return
	}

	rss, err := feed.ToRss()
	if err != nil {
		s.logger.Error("Error converting feed to RSS", "error", err)
		http.Error(w, "Failed to generate RSS", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(rss))
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte("pong"))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte(AppName))
}

// parseSince accepts RFC 3339 or unix seconds. Empty means no filter.
func parseSince(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	if secs, err := strconv.ParseInt(v, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC(), nil
	}
	return time.Parse(time.RFC3339, v)
}

func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
