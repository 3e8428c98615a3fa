//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// EventType is the kind of channel lifecycle event that triggered processing
// ENUM(create,rename)
type EventType string
