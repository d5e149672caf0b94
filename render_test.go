package imapsrv

import (
	"strings"
	"testing"

	"maildirsrv/maildir"
)

func TestRenderFlagList(t *testing.T) {

	fs := maildir.FlagSet(maildir.FlagSeen).With(maildir.FlagAnswered)
	got := renderFlagList(fs)
	want := `(\Answered \Seen)`

	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderFlagListEmpty(t *testing.T) {

	if got := renderFlagList(0); got != "()" {
		t.Errorf("got %q, want %q", got, "()")
	}
}

func TestRenderInternalDate(t *testing.T) {

	got := renderInternalDate(0)
	want := "01-Jan-1970 00:00:00 -0000"

	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderEnvelopeNilForMissingHeaders(t *testing.T) {

	msg := &maildir.Message{Headers: map[string]string{"SUBJECT": "hello"}}
	got := renderEnvelope(msg)

	if !strings.Contains(got, `"hello"`) {
		t.Errorf("envelope missing subject: %q", got)
	}
	if strings.Count(got, "NIL") != len(envelopeFields)-1 {
		t.Errorf("envelope should NIL every field but SUBJECT: %q", got)
	}
}

func TestRenderFetchLineFlagsAndUID(t *testing.T) {

	msg := &maildir.Message{UID: 7, Flags: maildir.FlagSet(maildir.FlagSeen)}
	line := renderFetchLine(3, msg, []fetchAttachment{flagsFetchAtt{}, uidFetchAtt{}})
	want := `3 FETCH (FLAGS (\Seen) UID 7)`

	if line != want {
		t.Errorf("got %q, want %q", line, want)
	}
}

func TestRenderBodySectionAllSection(t *testing.T) {

	msg := &maildir.Message{RawContents: "Subject: x\n\nbody\n", Size: 17}
	got := renderBodySection(msg, fetchSection{})
	want := "BODY[] {17}\r\nSubject: x\n\nbody\n"

	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderBodySectionHeaderFields(t *testing.T) {

	msg := &maildir.Message{Headers: map[string]string{"SUBJECT": "hi", "FROM": "a@b.test"}}
	sec := fetchSection{part: headerFieldsPart, fields: []string{"subject", "from"}}

	got := renderBodySection(msg, sec)
	want := "BODY[HEADER.FIELDS (SUBJECT FROM)] {29}\r\nSUBJECT: hi\r\nFROM: a@b.test\r\n"

	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderBodySectionPlaceholderForOtherVariants(t *testing.T) {

	msg := &maildir.Message{}
	sec := fetchSection{part: textPart}

	got := renderBodySection(msg, sec)
	if got != "BODY[?] " {
		t.Errorf("got %q, want placeholder %q", got, "BODY[?] ")
	}
}

func TestRenderFetchAttrBodyStructurePlaceholder(t *testing.T) {

	msg := &maildir.Message{}
	got := renderFetchAttr(msg, bodyStructureFetchAtt{})

	if got != "BODYSTRUCTURE NIL" {
		t.Errorf("got %q", got)
	}
}

func TestRenderFetchAttrRFC822TextOmitsBody(t *testing.T) {

	msg := &maildir.Message{RawContents: "Subject: x\n\nbody\n"}
	got := renderFetchAttr(msg, rfc822TextFetchAtt{})

	if got != "RFC822.TEXT {0}\r\n" {
		t.Errorf("got %q, want the body omitted per the placeholder contract", got)
	}
}
