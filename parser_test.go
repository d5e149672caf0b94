package imapsrv

import (
	"bufio"
	"strings"
	"testing"

	"maildirsrv/maildir"
)

func parseLine(t *testing.T, line string) command {
	t.Helper()
	r := bufio.NewReader(strings.NewReader(line))
	p := createParser(r)
	return p.next()
}

func TestParserParsesLogin(t *testing.T) {

	cmd := parseLine(t, "a1 LOGIN alice secret\r\n")
	lg, ok := cmd.(*login)
	if !ok {
		t.Fatalf("got %T, want *login", cmd)
	}
	if lg.tag != "a1" || lg.userId != "alice" || lg.password != "secret" {
		t.Errorf("got %+v", lg)
	}
}

func TestParserParsesStoreWithFlagList(t *testing.T) {

	cmd := parseLine(t, "a2 STORE 1:3 +FLAGS.SILENT (\\Seen \\Deleted)\r\n")
	st, ok := cmd.(*store)
	if !ok {
		t.Fatalf("got %T, want *store", cmd)
	}
	if st.op != maildir.StoreAdd {
		t.Errorf("op = %v, want StoreAdd", st.op)
	}
	if !st.silent {
		t.Error("expected .SILENT to be recognized")
	}
	if !st.flags.Has(maildir.FlagSeen) || !st.flags.Has(maildir.FlagDeleted) {
		t.Errorf("flags = %b, missing Seen or Deleted", st.flags)
	}
}

func TestParserParsesUidFetch(t *testing.T) {

	cmd := parseLine(t, "a3 UID FETCH 1:* (FLAGS UID)\r\n")
	u, ok := cmd.(*uid)
	if !ok {
		t.Fatalf("got %T, want *uid", cmd)
	}
	if u.subcommand != "fetch" {
		t.Errorf("subcommand = %q, want fetch", u.subcommand)
	}
	inner, ok := u.inner.(*fetch)
	if !ok {
		t.Fatalf("inner = %T, want *fetch", u.inner)
	}
	if len(inner.sequenceSet) != 1 || inner.sequenceSet[0].start != 1 {
		t.Errorf("sequenceSet = %+v", inner.sequenceSet)
	}
}

func TestParserUnknownCommandBecomesBad(t *testing.T) {

	cmd := parseLine(t, "a4 BOGUSCOMMAND\r\n")
	if _, ok := cmd.(*unknown); !ok {
		t.Fatalf("got %T, want *unknown", cmd)
	}
}

func TestParserMalformedSequenceSetRecoversToBad(t *testing.T) {

	cmd := parseLine(t, "a5 FETCH abc FLAGS\r\n")
	if _, ok := cmd.(*unknown); !ok {
		t.Fatalf("got %T, want *unknown (BAD) on malformed sequence set", cmd)
	}
}
