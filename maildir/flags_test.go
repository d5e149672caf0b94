package maildir

import "testing"

func TestFlagSetEncode(t *testing.T) {

	cases := []struct {
		set  FlagSet
		want string
	}{
		{0, ""},
		{FlagSet(FlagSeen), ":2,S"},
		{FlagSet(FlagDraft).With(FlagFlagged).With(FlagAnswered).With(FlagSeen), ":2,DFRS"},
		{FlagSet(FlagDeleted), ""}, // Deleted never contributes a filename letter
	}

	for _, c := range cases {
		got := c.set.Encode()
		if got != c.want {
			t.Errorf("Encode(%b) = %q, want %q", c.set, got, c.want)
		}
	}
}

func TestParseFlags(t *testing.T) {

	s := ParseFlags("2,DFRS")

	if !s.Has(FlagDraft) || !s.Has(FlagFlagged) || !s.Has(FlagAnswered) || !s.Has(FlagSeen) {
		t.Fatalf("ParseFlags(\"2,DFRS\") = %b, missing a flag", s)
	}

	if ParseFlags("2,").Has(FlagDraft) {
		t.Fail()
	}

	if ParseFlags("").Has(FlagSeen) {
		t.Fail()
	}
}

func TestFlagSetNamesOrder(t *testing.T) {

	s := FlagSet(FlagSeen).With(FlagAnswered).With(FlagDeleted)
	names := s.Names()

	want := []string{`\Answered`, `\Deleted`, `\Seen`}
	if len(names) != len(want) {
		t.Fatalf("Names() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("Names() = %v, want %v", names, want)
		}
	}
}

func TestFlagFromName(t *testing.T) {

	cases := map[string]Flag{
		`\Seen`:     FlagSeen,
		"Seen":      FlagSeen,
		`\Answered`: FlagAnswered,
		`\Deleted`:  FlagDeleted,
	}

	for name, want := range cases {
		got, ok := FlagFromName(name)
		if !ok || got != want {
			t.Errorf("FlagFromName(%q) = (%v, %v), want (%v, true)", name, got, ok, want)
		}
	}

	if _, ok := FlagFromName(`\Bogus`); ok {
		t.Fail()
	}
}

func TestFlagSetRoundTrip(t *testing.T) {

	s := FlagSet(FlagFlagged).With(FlagSeen)
	encoded := s.Encode()
	// strip the leading ":" the way message.go's filename parser does
	got := ParseFlags(encoded[1:])

	if got != s {
		t.Errorf("round trip through Encode/ParseFlags = %b, want %b", got, s)
	}
}

func TestFlagSetUnionIntersect(t *testing.T) {

	a := FlagSet(FlagSeen).With(FlagDraft)
	b := FlagSet(FlagSeen).With(FlagFlagged)

	u := a.Union(b)
	if !u.Has(FlagSeen) || !u.Has(FlagDraft) || !u.Has(FlagFlagged) {
		t.Errorf("Union = %b, missing a flag", u)
	}

	i := a.Intersect(b)
	if !i.Has(FlagSeen) || i.Has(FlagDraft) || i.Has(FlagFlagged) {
		t.Errorf("Intersect = %b, want only Seen", i)
	}
}
