package service

import (
	"context"
	"fmt"
	"log/slog"

	dialogDomain "github.com/reshetovitsme/channel-telltale/internal/modules/dialog/domain"
	eastereggService "github.com/reshetovitsme/channel-telltale/internal/modules/easteregg/service"
	"github.com/reshetovitsme/channel-telltale/internal/modules/interaction/domain"
	"github.com/reshetovitsme/channel-telltale/internal/shared/messaging"
)

// ClickHandler reacts to a button press
type ClickHandler interface {
	HandleClick(ctx context.Context, click domain.Click)
}

// Dispatcher routes button presses to the flow that owns the message
type Dispatcher struct {
	dialog    ClickHandler
	easterEgg ClickHandler
	client    messaging.Client
	logger    *slog.Logger
}

// New creates a dispatcher. Either handler may be nil when its flow is disabled.
func New(dialog, easterEgg ClickHandler, client messaging.Client, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		dialog:    dialog,
		easterEgg: easterEgg,
		client:    client,
		logger:    logger,
	}
}

// isDialogClick accepts only the actions a photo card offers. Unknown values on a
// photo card fall through to the neutral fallback.
func isDialogClick(click domain.Click) bool {
	action, err := dialogDomain.ParseAction(click.Value)
	return err == nil && action != dialogDomain.ActionInit
}

// Handle dispatches click. Clicks nobody owns are logged and answered with a
// neutral update so the user sees something happened.
func (d *Dispatcher) Handle(ctx context.Context, click domain.Click) {
	d.logger.Info("Interactive click", "channel_id", click.ChannelID, "value", click.Value, "callback_id", click.CallbackID)

	if click.ChannelID == "" {
		d.logger.Error("Interactive payload is missing the channel")
		return
	}

	switch {
	case d.dialog != nil && isDialogClick(click):
		d.dialog.HandleClick(ctx, click)
	case d.easterEgg != nil && eastereggService.IsClick(click.Value):
		d.easterEgg.HandleClick(ctx, click)
	default:
		d.logger.Error("Unknown interactive action", "channel_id", click.ChannelID, "value", click.Value)
		if click.MessageTS == "" {
			return
		}
		fallback := messaging.Message{Text: fmt.Sprintf("unknown action: %s", click.Value)}
		if err := d.client.UpdateMessage(ctx, click.ChannelID, click.MessageTS, fallback); err != nil {
			d.logger.Error("Failed to answer unknown action", "error", err)
		}
	}
}
