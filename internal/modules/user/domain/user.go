package domain

import (
	"strings"
	"time"

	sharedErrors "github.com/reshetovitsme/channel-telltale/internal/shared/errors"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// FeatureAprilFool marks users who asked the April Fools assistant to go away
const FeatureAprilFool = "aprilfool"

// User is a chat workspace member
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	RealName string `json:"real_name"`
	Image24  string `json:"image_24"`
	TZOffset int    `json:"tz_offset"`
}

// DisplayName prefers the real name and falls back to the handle
func (u *User) DisplayName() string {
	if u.RealName != "" {
		return u.RealName
	}
	return u.Name
}

// LocalTime converts now into the user's wall clock using their UTC offset in seconds
func (u *User) LocalTime(now time.Time) time.Time {
	return now.UTC().Add(time.Duration(u.TZOffset) * time.Second)
}

// Interest registers users who want to hear about channels created under Prefix
type Interest struct {
	Prefix    string
	UserNames []string
}

// ParseInterests reads definitions shaped like "prefix:user1,user2;prefix2:user3".
// Blank segments are skipped; a segment without a prefix or users is an error.
func ParseInterests(s string) ([]Interest, error) {
	var out []Interest
	for _, segment := range strings.Split(s, ";") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}

		prefix, users, found := strings.Cut(segment, ":")
		prefix = strings.TrimSpace(prefix)
		if !found || prefix == "" {
			return nil, oops.With("segment", segment).Wrap(sharedErrors.ErrInvalidInterests)
		}

		names := lo.Compact(lo.Map(strings.Split(users, ","), func(n string, _ int) string {
			return strings.TrimPrefix(strings.TrimSpace(n), "@")
		}))
		if len(names) == 0 {
			return nil, oops.With("segment", segment).Wrap(sharedErrors.ErrInvalidInterests)
		}

		out = append(out, Interest{Prefix: prefix, UserNames: names})
	}
	return out, nil
}
