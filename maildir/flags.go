// Package maildir implements the on-disk Maildir mailbox format: message
// flags encoded in filenames, cur/new/tmp layout, and the folder-level
// operations (open, store, expunge, check) an IMAP session drives.
package maildir

import "sort"

// Flag is one of the IMAP system flags this server understands.
type Flag uint8

const (
	FlagDraft Flag = 1 << iota
	FlagFlagged
	FlagAnswered
	FlagSeen
	// FlagDeleted is runtime-only: it is never written into a Maildir
	// filename. A message becomes eligible for EXPUNGE by carrying this
	// flag in memory; the file disappears instead of gaining a letter.
	FlagDeleted
)

// flagLetters gives the alphabetical D,F,R,S encoding order used in
// Maildir filenames (Answered maps to the letter R, not A).
var flagLetters = []struct {
	flag   Flag
	letter byte
}{
	{FlagDraft, 'D'},
	{FlagFlagged, 'F'},
	{FlagAnswered, 'R'},
	{FlagSeen, 'S'},
}

// FlagSet is a set of Flag values.
type FlagSet uint8

func (s FlagSet) Has(f Flag) bool { return s&FlagSet(f) != 0 }

func (s FlagSet) With(f Flag) FlagSet    { return s | FlagSet(f) }
func (s FlagSet) Without(f Flag) FlagSet { return s &^ FlagSet(f) }

// Union returns the set containing flags present in either set.
func (s FlagSet) Union(o FlagSet) FlagSet { return s | o }

// Intersect returns the set containing flags present in both sets.
func (s FlagSet) Intersect(o FlagSet) FlagSet { return s & o }

// Encode renders the Maildir filename suffix for this flag set: empty if
// no encodable flags are set, else ":2,<letters>" in D,F,R,S order.
// FlagDeleted never contributes a letter.
func (s FlagSet) Encode() string {
	var letters []byte
	for _, fl := range flagLetters {
		if s.Has(fl.flag) {
			letters = append(letters, fl.letter)
		}
	}
	if len(letters) == 0 {
		return ""
	}
	return ":2," + string(letters)
}

// ParseFlags decodes a Maildir filename suffix (everything after the
// first ':') back into a FlagSet. Unrecognized letters are ignored.
func ParseFlags(suffix string) FlagSet {
	var s FlagSet
	// suffix looks like "2,DFRS"; only the part after the comma matters.
	comma := -1
	for i := 0; i < len(suffix); i++ {
		if suffix[i] == ',' {
			comma = i
			break
		}
	}
	if comma == -1 {
		return s
	}
	for i := comma + 1; i < len(suffix); i++ {
		switch suffix[i] {
		case 'D':
			s = s.With(FlagDraft)
		case 'F':
			s = s.With(FlagFlagged)
		case 'R':
			s = s.With(FlagAnswered)
		case 'S':
			s = s.With(FlagSeen)
		}
	}
	return s
}

// Names returns the \-prefixed IMAP flag names for FETCH/STORE rendering.
// Names are sorted alphabetically, which is stable but not spec-mandated; §4.6
// notes tests must not depend on flag ordering.
func (s FlagSet) Names() []string {
	var names []string
	if s.Has(FlagAnswered) {
		names = append(names, `\Answered`)
	}
	if s.Has(FlagDeleted) {
		names = append(names, `\Deleted`)
	}
	if s.Has(FlagDraft) {
		names = append(names, `\Draft`)
	}
	if s.Has(FlagFlagged) {
		names = append(names, `\Flagged`)
	}
	if s.Has(FlagSeen) {
		names = append(names, `\Seen`)
	}
	sort.Strings(names)
	return names
}

// FlagFromName maps an IMAP flag name (with or without leading backslash)
// to a Flag, and reports whether it was recognized.
func FlagFromName(name string) (Flag, bool) {
	switch name {
	case `\Answered`, "Answered":
		return FlagAnswered, true
	case `\Deleted`, "Deleted":
		return FlagDeleted, true
	case `\Draft`, "Draft":
		return FlagDraft, true
	case `\Flagged`, "Flagged":
		return FlagFlagged, true
	case `\Seen`, "Seen":
		return FlagSeen, true
	default:
		return 0, false
	}
}
