//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// StateID identifies a step of the photo suggestion dialog
// ENUM(initial,normal,impatient,final,end,no-result,random,terminated)
type StateID string

// Action is a button click, or the implicit start of a dialog
// ENUM(init,keep,next,stop,random)
type Action string
