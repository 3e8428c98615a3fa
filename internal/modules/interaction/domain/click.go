package domain

// Click is a button press on an interactive message
type Click struct {
	ChannelID  string
	MessageTS  string
	UserID     string
	UserName   string
	CallbackID string
	Value      string
}
