package errors

import "errors"

var (
	ErrMissingBotToken     = errors.New("SLACK_BOT_TOKEN environment variable is required")
	ErrInvalidRoutingTable = errors.New("invalid routing table")
	ErrInvalidInterests    = errors.New("invalid interested users definition")
	ErrKeyNotFound         = errors.New("key not found")
	ErrSessionNotFound     = errors.New("dialog session not found")
	ErrChannelNotFound     = errors.New("channel not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrNoImage             = errors.New("no image found")
)
