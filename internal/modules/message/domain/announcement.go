package domain

import (
	"time"

	channelDomain "github.com/reshetovitsme/channel-telltale/internal/modules/channel/domain"
)

// Announcement is a record of one channel announcement that was sent out
type Announcement struct {
	ID           string                  `json:"id"`
	ChannelID    string                  `json:"channel_id"`
	ChannelName  string                  `json:"channel_name"`
	Purpose      string                  `json:"purpose"`
	CreatorID    string                  `json:"creator_id"`
	CreatorName  string                  `json:"creator_name"`
	EventType    channelDomain.EventType `json:"event_type"`
	Destinations []string                `json:"destinations"`
	AnnouncedAt  time.Time               `json:"announced_at"`
}

// Headline is a one-line human summary of the announcement
func (a *Announcement) Headline() string {
	if a.EventType == channelDomain.EventTypeRename {
		return a.CreatorName + " renamed a channel to #" + a.ChannelName
	}
	return a.CreatorName + " created #" + a.ChannelName
}
