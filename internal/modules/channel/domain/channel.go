package domain

// ChannelEvent is a channel lifecycle event normalised from the inbound webhook payload
type ChannelEvent struct {
	Type        EventType
	ChannelID   string
	ChannelName string
	CreatorID   string
	Created     int64
}

// Channel is the enriched channel metadata fetched from the chat platform
type Channel struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	CreatorID string   `json:"creator_id"`
	Purpose   string   `json:"purpose"`
	MemberIDs []string `json:"member_ids"`
	Created   int64    `json:"created"`
}

// HasMember reports whether userID already belongs to the channel
func (c *Channel) HasMember(userID string) bool {
	for _, id := range c.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}
