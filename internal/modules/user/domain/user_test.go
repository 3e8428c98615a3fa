package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	sharedErrors "github.com/reshetovitsme/channel-telltale/internal/shared/errors"
)

func TestParseInterests(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []Interest
		wantErr bool
	}{
		{name: "empty", input: "", want: nil},
		{
			name:  "two prefixes",
			input: "bug-:alice, @bob;ops-:carol",
			want: []Interest{
				{Prefix: "bug-", UserNames: []string{"alice", "bob"}},
				{Prefix: "ops-", UserNames: []string{"carol"}},
			},
		},
		{name: "trailing separator", input: "bug-:alice;", want: []Interest{{Prefix: "bug-", UserNames: []string{"alice"}}}},
		{name: "missing colon", input: "bug-alice", wantErr: true},
		{name: "no users", input: "bug-:", wantErr: true},
		{name: "no prefix", input: ":alice", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseInterests(tt.input)
			if tt.wantErr {
				if !errors.Is(err, sharedErrors.ErrInvalidInterests) {
					t.Fatalf("ParseInterests(%q) error = %v, want ErrInvalidInterests", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseInterests(%q) unexpected error: %v", tt.input, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseInterests(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestUserLocalTime(t *testing.T) {
	now := time.Date(2024, time.March, 31, 23, 30, 0, 0, time.UTC)

	east := &User{TZOffset: 3600}
	if got := east.LocalTime(now); got.Month() != time.April || got.Day() != 1 {
		t.Errorf("LocalTime with +1h = %v, want April 1", got)
	}

	west := &User{TZOffset: -3600}
	if got := west.LocalTime(now); got.Day() != 31 {
		t.Errorf("LocalTime with -1h = %v, want March 31", got)
	}
}

func TestUserDisplayName(t *testing.T) {
	if got := (&User{Name: "pp", RealName: "Phillip Piper"}).DisplayName(); got != "Phillip Piper" {
		t.Errorf("DisplayName = %q", got)
	}
	if got := (&User{Name: "pp"}).DisplayName(); got != "pp" {
		t.Errorf("DisplayName fallback = %q", got)
	}
}
