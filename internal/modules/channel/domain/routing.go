package domain

import (
	"sort"
	"strings"

	"github.com/samber/lo"
)

// RoutingTable maps a destination channel id to the channel-name prefixes routed to it.
// One name may match several destinations; every match is notified.
type RoutingTable map[string][]string

// Prefixes returns every configured prefix, deduplicated and sorted
func (t RoutingTable) Prefixes() []string {
	all := lo.Uniq(lo.Flatten(lo.Values(t)))
	sort.Strings(all)
	return all
}

// Destinations returns the destinations with at least one prefix matching name.
// Each destination appears once, in sorted order.
func (t RoutingTable) Destinations(name string) []string {
	matched := lo.Filter(lo.Keys(t), func(dest string, _ int) bool {
		return HasAnyPrefix(name, t[dest])
	})
	sort.Strings(matched)
	return matched
}

// HasAnyPrefix reports whether name starts with any of prefixes. Matching is case-sensitive.
func HasAnyPrefix(name string, prefixes []string) bool {
	return lo.SomeBy(prefixes, func(p string) bool {
		return strings.HasPrefix(name, p)
	})
}

// MatchingPrefixes returns the members of prefixes that name starts with
func MatchingPrefixes(name string, prefixes []string) []string {
	return lo.Filter(prefixes, func(p string, _ int) bool {
		return strings.HasPrefix(name, p)
	})
}
