package service

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"

	"github.com/reshetovitsme/channel-telltale/internal/integration/imagesearch"
	"github.com/reshetovitsme/channel-telltale/internal/modules/dialog/domain"
	sharedErrors "github.com/reshetovitsme/channel-telltale/internal/shared/errors"
	"github.com/reshetovitsme/channel-telltale/internal/shared/messaging"
	"github.com/reshetovitsme/channel-telltale/internal/shared/tmpl"
	"github.com/samber/lo"
	"github.com/slack-go/slack"
)

// MaxImageSizeBytes is the default size limit passed to the image search
const MaxImageSizeBytes = 2 * 1024 * 104

const outOfIdeas = "I've run out of ideas. This channel will have to live without a photo :shrug:"

// Generator advances photo dialog states. It holds no per-dialog data, so one
// Generator serves every channel.
type Generator struct {
	searcher     imagesearch.Searcher
	maxSizeBytes int64
	logger       *slog.Logger

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewGenerator creates a Generator. A nil rnd uses a randomly seeded source.
func NewGenerator(searcher imagesearch.Searcher, rnd *rand.Rand, logger *slog.Logger) *Generator {
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		searcher:     searcher,
		maxSizeBytes: MaxImageSizeBytes,
		rnd:          rnd,
		logger:       logger,
	}
}

// SetMaxImageSize overrides the size limit passed to the image search
func (g *Generator) SetMaxImageSize(n int64) {
	g.maxSizeBytes = n
}

func (g *Generator) intn(n int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rnd.IntN(n)
}

// Start creates a new dialog for searchTerms and renders its first message
func (g *Generator) Start(ctx context.Context, searchTerms []string) *domain.State {
	st := domain.NewState(searchTerms)
	g.Advance(ctx, st, domain.ActionInit, "")
	return st
}

// Advance applies action to st and returns the message to show, which is also
// stored in st.Msg. It returns nil, leaving st untouched, when the dialog is
// already terminated or the action is not recognised. user names the clicker
// in the closing cards; empty means "You".
func (g *Generator) Advance(ctx context.Context, st *domain.State, action domain.Action, user string) *messaging.Message {
	g.logger.Info("Executing dialog transition", "action", action, "state", st.StateID)

	if st.IsTerminated() {
		g.logger.Error("No further actions possible, dialog is terminated", "action", action)
		return nil
	}
	if !action.IsValid() {
		g.logger.Error("Unknown dialog action", "action", action)
		return nil
	}
	if _, ok := domain.Lookup(st.StateID); !ok {
		g.logger.Error("Unknown dialog state", "state", st.StateID)
		return nil
	}

	switch action {
	case domain.ActionKeep:
		return g.finish(st, user)
	case domain.ActionStop:
		return g.cancel(st, user)
	case domain.ActionRandom:
		g.changeState(st, domain.StateIDRandom)
	}
	return g.suggest(ctx, st)
}

// suggest shows the next unseen option. Every pass either records a dialogue
// line or moves to another state, and the table ends in terminated, so the loop
// always finishes.
func (g *Generator) suggest(ctx context.Context, st *domain.State) *messaging.Message {
	for {
		current := st.StateID
		def, ok := domain.Lookup(current)
		if !ok {
			g.logger.Error("Unknown dialog state", "state", current)
			return nil
		}

		remaining := lo.Filter(def.Options, func(o domain.Option, _ int) bool {
			return !st.HasShownDialogue(o.Dialogue)
		})
		if len(remaining) == 0 {
			if def.Next == domain.StateIDTerminated {
				return g.giveUp(st)
			}
			g.changeState(st, def.Next)
			continue
		}

		opt := remaining[g.intn(len(remaining))]
		imageURL := g.findImage(ctx, st, opt)
		if imageURL == "" {
			st.PreviousDialog = append(st.PreviousDialog, opt.Dialogue)
			g.changeState(st, def.NoResult)
			continue
		}

		st.PreviousDialog = append(st.PreviousDialog, opt.Dialogue)
		st.PreviousImageURLs = append(st.PreviousImageURLs, imageURL)
		st.Msg = g.render(st, current, opt, imageURL)
		return st.Msg
	}
}

func (g *Generator) findImage(ctx context.Context, st *domain.State, opt domain.Option) string {
	if len(opt.Images) > 0 {
		candidates := lo.Without(opt.Images, st.PreviousImageURLs...)
		if len(candidates) == 0 {
			return ""
		}
		return candidates[g.intn(len(candidates))]
	}

	terms := opt.Search
	if len(terms) == 0 {
		terms = st.SearchTerms
	}
	if g.searcher == nil {
		return ""
	}

	url, err := g.searcher.Random(ctx, terms, imagesearch.Options{
		MaxSizeInBytes: g.maxSizeBytes,
		Exclude:        st.PreviousImageURLs,
	})
	if err != nil {
		if !errors.Is(err, sharedErrors.ErrNoImage) {
			g.logger.Error("Image search failed", "terms", terms, "error", err)
		}
		return ""
	}
	return url
}

// DisplaySearchTerms renders search terms sorted and space separated
func DisplaySearchTerms(terms []string) string {
	sorted := slices.Clone(terms)
	slices.Sort(sorted)
	return strings.Join(sorted, " ")
}

func (g *Generator) color() string {
	return domain.Colors[g.intn(len(domain.Colors))]
}

func (g *Generator) render(st *domain.State, stateID domain.StateID, opt domain.Option, imageURL string) *messaging.Message {
	vars := tmpl.Vars{
		"search_terms": DisplaySearchTerms(st.SearchTerms),
		"image_url":    imageURL,
	}
	color := g.color()

	actions := []slack.AttachmentAction{
		{Name: "photo", Text: "Yes, that's great", Type: "button", Style: "primary", Value: string(domain.ActionKeep)},
		{Name: "photo", Text: "No, show something else", Type: "button", Value: string(domain.ActionNext)},
		{Name: "photo", Text: "Random", Type: "button", Value: string(domain.ActionRandom)},
		{Name: "photo", Text: "Stop suggesting", Type: "button", Style: "danger", Value: string(domain.ActionStop)},
	}
	if stateID == domain.StateIDEnd {
		actions = []slack.AttachmentAction{actions[0], actions[3]}
	}

	return &messaging.Message{Attachments: []slack.Attachment{
		{
			Color:      color,
			Pretext:    "*" + tmpl.Render(opt.Dialogue, vars) + "*",
			ImageURL:   imageURL,
			MarkdownIn: []string{"pretext"},
		},
		{
			Color:      color,
			Title:      opt.PromptOrDefault(),
			CallbackID: domain.CallbackID,
			Actions:    actions,
		},
	}}
}

func mention(user string) string {
	if user == "" {
		return "You"
	}
	return user
}

func (g *Generator) finish(st *domain.State, user string) *messaging.Message {
	st.Msg = &messaging.Message{Attachments: []slack.Attachment{{
		Color:      g.color(),
		Pretext:    "*" + mention(user) + " chose this as the photo for this channel :heart:*",
		ImageURL:   st.LastImageURL(),
		MarkdownIn: []string{"pretext"},
	}}}
	g.changeState(st, domain.StateIDTerminated)
	return st.Msg
}

func (g *Generator) cancel(st *domain.State, user string) *messaging.Message {
	st.Msg = &messaging.Message{Text: mention(user) + " chose to not have a photo for this channel :disappointed:"}
	g.changeState(st, domain.StateIDTerminated)
	return st.Msg
}

func (g *Generator) giveUp(st *domain.State) *messaging.Message {
	st.Msg = &messaging.Message{Text: outOfIdeas}
	g.changeState(st, domain.StateIDTerminated)
	return st.Msg
}

func (g *Generator) changeState(st *domain.State, next domain.StateID) {
	g.logger.Info("Changing dialog state", "from", st.StateID, "to", next)
	st.StateID = next
}
