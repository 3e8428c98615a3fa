package domain

import (
	"encoding/json"

	sharedErrors "github.com/reshetovitsme/channel-telltale/internal/shared/errors"
	"github.com/reshetovitsme/channel-telltale/internal/shared/messaging"
	"github.com/samber/oops"
)

// CallbackID tags the button card of every photo suggestion
const CallbackID = "choose_photo"

// State is the persisted progress of one channel's photo dialog
type State struct {
	StateID           StateID            `json:"state_id"`
	SearchTerms       []string           `json:"search_terms"`
	PreviousDialog    []string           `json:"previous_dialog"`
	PreviousImageURLs []string           `json:"previous_image_urls"`
	Msg               *messaging.Message `json:"msg,omitempty"`
}

// NewState starts a dialog in the initial state
func NewState(searchTerms []string) *State {
	return &State{
		StateID:           StateIDInitial,
		SearchTerms:       searchTerms,
		PreviousDialog:    []string{},
		PreviousImageURLs: []string{},
	}
}

// IsTerminated reports whether the dialog has finished
func (s *State) IsTerminated() bool {
	return s.StateID == StateIDTerminated
}

// HasShownDialogue reports whether the dialogue line was already used
func (s *State) HasShownDialogue(dialogue string) bool {
	for _, d := range s.PreviousDialog {
		if d == dialogue {
			return true
		}
	}
	return false
}

// LastImageURL is the most recently shown image, or ""
func (s *State) LastImageURL() string {
	if len(s.PreviousImageURLs) == 0 {
		return ""
	}
	return s.PreviousImageURLs[len(s.PreviousImageURLs)-1]
}

// DecodeState parses and validates persisted state. Corrupt data or an unknown
// state id is reported as ErrSessionNotFound.
func DecodeState(data []byte) (*State, error) {
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, oops.With("context", "corrupt dialog state").Wrap(sharedErrors.ErrSessionNotFound)
	}
	if !st.StateID.IsValid() {
		return nil, oops.With("state_id", st.StateID).Wrap(sharedErrors.ErrSessionNotFound)
	}
	if st.PreviousDialog == nil {
		st.PreviousDialog = []string{}
	}
	if st.PreviousImageURLs == nil {
		st.PreviousImageURLs = []string{}
	}
	return &st, nil
}
