// Package extract locates a machine-suggested next command inside free-form
// assistant output. Matching is a priority-ordered pipeline of patterns; the
// first success wins. A miss is a normal outcome, never an error.
package extract

import (
	"regexp"
	"strings"
)

// Command tokens are restricted to the gsd workflow lexicon. An optional bare
// numeric argument (the phase or milestone number) passes through unchanged.
const (
	tokenPattern = `/gsd-(?:plan-phase|execute-phase|discuss-phase|audit-milestone|complete-milestone|add-phase|insert-phase|verify-work|new-project|new-milestone)`
	numArg       = `(?:[ \t]+\d+)?`
	wordArg      = `(?:[ \t]+[A-Za-z0-9][A-Za-z0-9._-]*)?`
)

// proximityWindow bounds the last-resort whole-text scan: a command token
// found outside the anchor section counts only within this many characters
// after the anchor phrase.
const proximityWindow = 300

// anchorPatterns locate the "Next Up" section, tried in priority order.
// Each match is bounded by the next heading-like delimiter or end of text.
var anchorPatterns = []*regexp.Regexp{
	// Decorated heading, either arrow glyph (▶ U+25B6, ▸ U+25B8).
	regexp.MustCompile(`(?m)^#{1,6}[ \t]*[▶▸][ \t]*Next Up[^\n]*\n?`),
	// Quote-style marker.
	regexp.MustCompile(`(?m)^>[ \t]*\*\*Next Up\*\*[^\n]*\n?`),
	// Plain heading.
	regexp.MustCompile(`(?m)^#{1,6}[ \t]*Next Up[^\n]*\n?`),
	// Bare phrase followed by a line break.
	regexp.MustCompile(`(?i)\bnext up\b[^\n]*\n`),
}

// sectionBoundary ends an anchor section at the next heading or rule.
var sectionBoundary = regexp.MustCompile(`(?m)^(?:#{1,6}[ \t]|---[ \t]*$|===)`)

// commandPatterns find the command inside the anchor section, in order of
// increasing permissiveness. Capture group 1 is the command.
var commandPatterns = []*regexp.Regexp{
	// Backtick-fenced or quoted token; word arguments allowed here because
	// the author fenced the command deliberately.
	regexp.MustCompile("[`\"]\\s*(" + tokenPattern + wordArg + ")\\s*[`\"]"),
	// Token at line start.
	regexp.MustCompile(`(?m)^[ \t]*(` + tokenPattern + numArg + `)`),
	// Token followed by a bare number.
	regexp.MustCompile(`(` + tokenPattern + `[ \t]+\d+)`),
	// Token after a colon.
	regexp.MustCompile(`:[ \t]*(` + tokenPattern + numArg + `)`),
	// Token anywhere.
	regexp.MustCompile(`(` + tokenPattern + numArg + `)`),
}

var (
	anchorPhrase = regexp.MustCompile(`(?i)\bnext up\b`)
	tokenAny     = regexp.MustCompile(tokenPattern + numArg)
)

// Next scans assistant output for a suggested next command. The second return
// is false when no anchor section exists or no command token sits close
// enough to it; the caller treats that as "nothing to chain".
func Next(text string) (string, bool) {
	section, ok := anchorSection(text)
	if !ok {
		return "", false
	}

	for _, p := range commandPatterns {
		if m := p.FindStringSubmatch(section); m != nil {
			return clean(m[1]), true
		}
	}

	// Last resort: the section itself had no token; accept one from the
	// surrounding text if it trails the anchor phrase closely.
	return proximityScan(text)
}

// anchorSection returns the substring between the first matching anchor
// marker and the next section boundary (or end of text).
func anchorSection(text string) (string, bool) {
	for _, p := range anchorPatterns {
		loc := p.FindStringIndex(text)
		if loc == nil {
			continue
		}
		rest := text[loc[1]:]
		if b := sectionBoundary.FindStringIndex(rest); b != nil {
			rest = rest[:b[0]]
		}
		return rest, true
	}
	return "", false
}

func proximityScan(text string) (string, bool) {
	anchor := anchorPhrase.FindStringIndex(text)
	if anchor == nil {
		return "", false
	}

	for _, loc := range tokenAny.FindAllStringIndex(text, -1) {
		if loc[0] < anchor[1] {
			continue
		}
		if loc[0]-anchor[1] > proximityWindow {
			break
		}
		return clean(text[loc[0]:loc[1]]), true
	}
	return "", false
}

// clean trims the match and strips a trailing " — explanation" clause at the
// first em- or en-dash separator.
func clean(command string) string {
	for _, sep := range []string{"—", "–"} {
		if i := strings.Index(command, sep); i >= 0 {
			command = command[:i]
		}
	}
	return strings.TrimSpace(command)
}
