package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/reshetovitsme/channel-telltale/internal/modules/interaction/domain"
	"github.com/reshetovitsme/channel-telltale/internal/shared/messaging/messagingtest"
)

type recordingHandler struct {
	clicks []string
}

func (h *recordingHandler) HandleClick(_ context.Context, click domain.Click) {
	h.clicks = append(h.clicks, click.Value)
}

func TestDispatcherRoutes(t *testing.T) {
	dialog := &recordingHandler{}
	egg := &recordingHandler{}
	client := messagingtest.New()
	d := New(dialog, egg, client, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	clicks := []domain.Click{
		{ChannelID: "C1", MessageTS: "1.1", CallbackID: "choose_photo", Value: "next"},
		{ChannelID: "C1", MessageTS: "1.1", Value: "keep"},
		{ChannelID: "C1", MessageTS: "1.1", Value: "click_gtw"},
		{ChannelID: "C1", MessageTS: "1.1", Value: "init"},
		{ChannelID: "C1", MessageTS: "1.1", Value: "launch_missiles"},
		{ChannelID: "C1", MessageTS: "1.2", CallbackID: "choose_photo", Value: "launch_missiles"},
		{MessageTS: "1.1", Value: "keep"},
	}
	for _, c := range clicks {
		d.Handle(ctx, c)
	}

	if diff := cmp.Diff([]string{"next", "keep"}, dialog.clicks); diff != "" {
		t.Errorf("dialog clicks mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"click_gtw"}, egg.clicks); diff != "" {
		t.Errorf("easter egg clicks mismatch (-want +got):\n%s", diff)
	}

	updates := client.AllUpdates()
	var texts []string
	for _, u := range updates {
		texts = append(texts, u.Message.Text)
	}
	want := []string{"unknown action: init", "unknown action: launch_missiles", "unknown action: launch_missiles"}
	if diff := cmp.Diff(want, texts); diff != "" {
		t.Errorf("fallback updates mismatch (-want +got):\n%s", diff)
	}
}

func TestDispatcherDisabledFlows(t *testing.T) {
	client := messagingtest.New()
	d := New(nil, nil, client, slog.New(slog.NewTextHandler(io.Discard, nil)))

	d.Handle(context.Background(), domain.Click{ChannelID: "C1", MessageTS: "1.1", Value: "click_gtw"})

	if n := len(client.AllUpdates()); n != 1 {
		t.Errorf("got %d updates, want the neutral fallback", n)
	}
}
