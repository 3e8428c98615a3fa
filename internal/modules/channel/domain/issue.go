package domain

import (
	"regexp"
	"strings"
)

// An issue key is one letter, 1-32 letters/digits/underscores, a hyphen and 1-32 digits.
var issuePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]{1,32}-[0-9]{1,32}`)

// ExtractIssueID finds an issue-tracker key directly after a routing prefix.
//
// Every prefix that name starts with is stripped in turn and the remainder
// tried against the key pattern; the first remainder that matches wins. When no
// prefix matches at all, the whole name is tried. The returned remainder is the
// prefix-stripped name the key was found in, so callers can tell whether the
// channel is named after nothing but the issue.
func ExtractIssueID(name string, prefixes []string) (id, remainder string, ok bool) {
	stripped := false
	for _, prefix := range prefixes {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		stripped = true
		rest := name[len(prefix):]
		if m := issuePattern.FindString(rest); m != "" {
			return m, rest, true
		}
	}
	if stripped {
		return "", "", false
	}
	if m := issuePattern.FindString(name); m != "" {
		return m, name, true
	}
	return "", "", false
}
