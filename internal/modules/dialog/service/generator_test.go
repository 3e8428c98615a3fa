package service

import (
	"context"
	"io"
	"log/slog"
	"math/rand/v2"
	"slices"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/reshetovitsme/channel-telltale/internal/integration/imagesearch"
	"github.com/reshetovitsme/channel-telltale/internal/modules/dialog/domain"
	sharedErrors "github.com/reshetovitsme/channel-telltale/internal/shared/errors"
	"github.com/slack-go/slack"
)

type mockSearcher struct {
	mu    sync.Mutex
	url   string
	calls [][]string
	opts  []imagesearch.Options
}

func (m *mockSearcher) Random(_ context.Context, terms []string, opts imagesearch.Options) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, terms)
	m.opts = append(m.opts, opts)
	if m.url == "" {
		return "", sharedErrors.ErrNoImage
	}
	return m.url, nil
}

func newTestGenerator(searcher imagesearch.Searcher) *Generator {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewGenerator(searcher, rand.New(rand.NewPCG(1, 2)), logger)
}

type actionView struct {
	Text  string
	Style string
	Value string
}

func actionsOf(att slack.Attachment) []actionView {
	var out []actionView
	for _, a := range att.Actions {
		if a.Name != "photo" || a.Type != "button" {
			continue
		}
		out = append(out, actionView{Text: a.Text, Style: a.Style, Value: a.Value})
	}
	return out
}

func cloneState(st *domain.State) domain.State {
	cp := *st
	cp.SearchTerms = slices.Clone(st.SearchTerms)
	cp.PreviousDialog = slices.Clone(st.PreviousDialog)
	cp.PreviousImageURLs = slices.Clone(st.PreviousImageURLs)
	cp.Msg = nil
	return cp
}

func TestGeneratorStart(t *testing.T) {
	searcher := &mockSearcher{url: "http://some.com/image.png"}
	g := newTestGenerator(searcher)

	st := g.Start(context.Background(), []string{"very", "cute", "dogs"})

	if st.StateID != domain.StateIDInitial {
		t.Errorf("state = %s, want initial", st.StateID)
	}
	if st.Msg == nil || st.Msg.Text != "" {
		t.Fatalf("unexpected message %+v", st.Msg)
	}
	atts := st.Msg.Attachments
	if len(atts) != 2 {
		t.Fatalf("got %d attachments, want 2", len(atts))
	}

	if got := atts[0].Pretext; got != "*I found this photo using the following search terms: cute dogs very.*" {
		t.Errorf("pretext = %q", got)
	}
	if atts[0].ImageURL != "http://some.com/image.png" {
		t.Errorf("image = %q", atts[0].ImageURL)
	}
	if atts[0].Color != atts[1].Color || !slices.Contains(domain.Colors, atts[0].Color) {
		t.Errorf("colors %q/%q not a matching palette entry", atts[0].Color, atts[1].Color)
	}
	if atts[1].Title != "Do you want to keep this picture?" || atts[1].CallbackID != "choose_photo" {
		t.Errorf("button card = %q / %q", atts[1].Title, atts[1].CallbackID)
	}

	wantActions := []actionView{
		{Text: "Yes, that's great", Style: "primary", Value: "keep"},
		{Text: "No, show something else", Value: "next"},
		{Text: "Random", Value: "random"},
		{Text: "Stop suggesting", Style: "danger", Value: "stop"},
	}
	if diff := cmp.Diff(wantActions, actionsOf(atts[1])); diff != "" {
		t.Errorf("actions mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"http://some.com/image.png"}, st.PreviousImageURLs); diff != "" {
		t.Errorf("image history mismatch (-want +got):\n%s", diff)
	}
	if len(searcher.opts) != 1 || searcher.opts[0].MaxSizeInBytes != 2*1024*104 {
		t.Errorf("search options = %+v", searcher.opts)
	}
	if diff := cmp.Diff([][]string{{"very", "cute", "dogs"}}, searcher.calls); diff != "" {
		t.Errorf("search terms mismatch (-want +got):\n%s", diff)
	}
}

func TestGeneratorNextMovesThroughStates(t *testing.T) {
	g := newTestGenerator(&mockSearcher{url: "http://img/x.png"})
	st := g.Start(context.Background(), []string{"dogs"})

	msg := g.Advance(context.Background(), st, domain.ActionNext, "")
	if msg == nil {
		t.Fatal("Advance(next) = nil")
	}
	if st.StateID != domain.StateIDNormal {
		t.Errorf("state = %s, want normal", st.StateID)
	}
	if len(st.PreviousDialog) != 2 {
		t.Errorf("previous dialog = %v", st.PreviousDialog)
	}
	if got := msg.Attachments[1].Title; got != domain.DefaultPrompt {
		t.Errorf("prompt = %q, want default", got)
	}
}

func TestGeneratorExhaustion(t *testing.T) {
	g := newTestGenerator(&mockSearcher{url: "http://img/x.png"})

	normal, _ := domain.Lookup(domain.StateIDNormal)
	st := domain.NewState([]string{"dogs"})
	st.StateID = domain.StateIDNormal
	for _, o := range normal.Options {
		st.PreviousDialog = append(st.PreviousDialog, o.Dialogue)
	}
	st.Msg = nil

	msg := g.Advance(context.Background(), st, domain.ActionNext, "")
	if msg == nil {
		t.Fatal("Advance(next) = nil")
	}
	if st.StateID != domain.StateIDImpatient {
		t.Errorf("state = %s, want impatient", st.StateID)
	}

	impatient, _ := domain.Lookup(domain.StateIDImpatient)
	shown := st.PreviousDialog[len(st.PreviousDialog)-1]
	if !slices.ContainsFunc(impatient.Options, func(o domain.Option) bool { return o.Dialogue == shown }) {
		t.Errorf("shown dialogue %q is not an impatient option", shown)
	}
}

func TestGeneratorNoResultFallback(t *testing.T) {
	searcher := &mockSearcher{}
	g := newTestGenerator(searcher)

	st := g.Start(context.Background(), []string{"obscure"})

	if st.StateID != domain.StateIDEnd {
		t.Fatalf("state = %s, want end (only fixed images left)", st.StateID)
	}
	noResult, _ := domain.Lookup(domain.StateIDNoResult)
	if !st.HasShownDialogue(noResult.Options[0].Dialogue) {
		t.Error("dialog did not pass through the no-result branch")
	}
	if !slices.Contains(domain.CuteAnimals, st.LastImageURL()) {
		t.Errorf("last image %q is not from the fixed list", st.LastImageURL())
	}

	wantActions := []actionView{
		{Text: "Yes, that's great", Style: "primary", Value: "keep"},
		{Text: "Stop suggesting", Style: "danger", Value: "stop"},
	}
	if diff := cmp.Diff(wantActions, actionsOf(st.Msg.Attachments[1])); diff != "" {
		t.Errorf("end state actions mismatch (-want +got):\n%s", diff)
	}

	if !slices.ContainsFunc(searcher.calls, func(terms []string) bool {
		return slices.Equal(terms, []string{"cute", "puppies"})
	}) {
		t.Error("no-result option did not search for its own terms")
	}
}

func TestGeneratorTerminatesWhenEverythingFails(t *testing.T) {
	g := newTestGenerator(&mockSearcher{})

	st := domain.NewState([]string{"x"})
	st.PreviousImageURLs = slices.Clone(domain.CuteAnimals)

	msg := g.Advance(context.Background(), st, domain.ActionInit, "")
	if msg == nil || msg.Text != outOfIdeas {
		t.Fatalf("msg = %+v, want the out of ideas message", msg)
	}
	if st.StateID != domain.StateIDTerminated {
		t.Errorf("state = %s, want terminated", st.StateID)
	}
}

func TestGeneratorEndExhausted(t *testing.T) {
	g := newTestGenerator(&mockSearcher{url: "http://img/x.png"})

	end, _ := domain.Lookup(domain.StateIDEnd)
	st := domain.NewState([]string{"x"})
	st.StateID = domain.StateIDEnd
	st.PreviousDialog = []string{end.Options[0].Dialogue}

	msg := g.Advance(context.Background(), st, domain.ActionNext, "")
	if msg == nil || msg.Text != outOfIdeas {
		t.Fatalf("msg = %+v, want the out of ideas message", msg)
	}
	if !st.IsTerminated() {
		t.Errorf("state = %s, want terminated", st.StateID)
	}
}

func TestGeneratorKeepAndStop(t *testing.T) {
	g := newTestGenerator(&mockSearcher{url: "http://img/x.png"})

	t.Run("keep", func(t *testing.T) {
		st := g.Start(context.Background(), []string{"x"})
		st.PreviousImageURLs = append(st.PreviousImageURLs, "http://img/last.png")

		msg := g.Advance(context.Background(), st, domain.ActionKeep, "alice")
		if msg == nil || len(msg.Attachments) != 1 {
			t.Fatalf("msg = %+v", msg)
		}
		if got := msg.Attachments[0].Pretext; got != "*alice chose this as the photo for this channel :heart:*" {
			t.Errorf("pretext = %q", got)
		}
		if msg.Attachments[0].ImageURL != "http://img/last.png" {
			t.Errorf("image = %q, want the last shown", msg.Attachments[0].ImageURL)
		}
		if !st.IsTerminated() {
			t.Errorf("state = %s, want terminated", st.StateID)
		}
	})

	t.Run("stop", func(t *testing.T) {
		st := g.Start(context.Background(), []string{"x"})

		msg := g.Advance(context.Background(), st, domain.ActionStop, "")
		if msg == nil || msg.Text != "You chose to not have a photo for this channel :disappointed:" {
			t.Fatalf("msg = %+v", msg)
		}
		if !st.IsTerminated() {
			t.Errorf("state = %s, want terminated", st.StateID)
		}
	})
}

func TestGeneratorRandomJump(t *testing.T) {
	searcher := &mockSearcher{url: "http://img/x.png"}
	g := newTestGenerator(searcher)
	st := g.Start(context.Background(), []string{"dogs"})

	if msg := g.Advance(context.Background(), st, domain.ActionRandom, ""); msg == nil {
		t.Fatal("Advance(random) = nil")
	}
	if st.StateID != domain.StateIDRandom {
		t.Errorf("state = %s, want random", st.StateID)
	}
	last := searcher.calls[len(searcher.calls)-1]
	if last[0] != "beautiful" {
		t.Errorf("random state searched for %v", last)
	}
}

func TestGeneratorTerminalAbsorption(t *testing.T) {
	g := newTestGenerator(&mockSearcher{url: "http://img/x.png"})
	st := g.Start(context.Background(), []string{"x"})
	g.Advance(context.Background(), st, domain.ActionStop, "")

	before := cloneState(st)
	beforeMsg := st.Msg
	for _, action := range []domain.Action{domain.ActionInit, domain.ActionNext, domain.ActionKeep, domain.ActionStop, domain.ActionRandom} {
		if msg := g.Advance(context.Background(), st, action, ""); msg != nil {
			t.Errorf("Advance(%s) after termination = %+v, want nil", action, msg)
		}
	}
	if diff := cmp.Diff(before, cloneState(st)); diff != "" {
		t.Errorf("terminated state mutated (-before +after):\n%s", diff)
	}
	if st.Msg != beforeMsg {
		t.Error("terminated message replaced")
	}
}

func TestGeneratorUnknownAction(t *testing.T) {
	g := newTestGenerator(&mockSearcher{url: "http://img/x.png"})
	st := g.Start(context.Background(), []string{"x"})
	before := cloneState(st)

	if msg := g.Advance(context.Background(), st, domain.Action("dance"), ""); msg != nil {
		t.Errorf("Advance(dance) = %+v, want nil", msg)
	}
	if diff := cmp.Diff(before, cloneState(st)); diff != "" {
		t.Errorf("state mutated by unknown action (-before +after):\n%s", diff)
	}
}
