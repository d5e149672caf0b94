package imapsrv

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"maildirsrv/auth"
	"maildirsrv/maildir"
)

// fakeStore is a minimal auth.Store for exercising command execution
// without a real backend.
type fakeStore struct {
	users map[string]*auth.User
}

func (f *fakeStore) Lookup(email string) (*auth.User, error) {
	u, ok := f.users[email]
	if !ok {
		return nil, auth.ErrNotFound
	}
	return u, nil
}

func (f *fakeStore) Authenticate(email, password string) (*auth.User, error) {
	u, ok := f.users[email]
	if !ok || password != "secret" {
		return nil, auth.ErrInvalidCredentials
	}
	return u, nil
}

func newTestSession(t *testing.T) *session {
	t.Helper()
	root := t.TempDir()
	for _, sub := range []string{"cur", "new", "tmp"} {
		if err := os.MkdirAll(filepath.Join(root, sub), 0755); err != nil {
			t.Fatalf("mkdir %s: %v", sub, err)
		}
	}

	u := &auth.User{Email: auth.Email{Local: "alice", Domain: "example.test"}, MaildirRoot: root}
	store := &fakeStore{users: map[string]*auth.User{"alice@example.test": u}}
	server := NewServer(nil, store, nil)

	return createSession(1, server, nil, unencryptedLevel)
}

func drain(out chan response) []response {
	var got []response
	for r := range out {
		got = append(got, r)
	}
	return got
}

func TestNoopCommand(t *testing.T) {

	sess := newTestSession(t)
	out := make(chan response)
	go (&noop{tag: "a1"}).execute(sess, out)

	responses := drain(out)
	if len(responses) != 1 {
		t.Fatalf("got %d responses, want 1", len(responses))
	}
	fr := responses[0].(*finalResponse)
	if fr.tag != "a1" || fr.condition != "OK" {
		t.Errorf("got %+v", fr)
	}
}

func TestCapabilityCommand(t *testing.T) {

	sess := newTestSession(t)
	out := make(chan response)
	go (&capability{tag: "a1"}).execute(sess, out)

	responses := drain(out)
	fr := responses[0].(*finalResponse)
	if fr.condition != "OK" {
		t.Errorf("condition = %q, want OK", fr.condition)
	}
}

func TestLoginCommandSuccess(t *testing.T) {

	sess := newTestSession(t)
	out := make(chan response)
	cmd := &login{tag: "a1", userId: "alice@example.test", password: "secret"}
	go cmd.execute(sess, out)

	responses := drain(out)
	fr := responses[0].(*finalResponse)
	if fr.condition != "OK" {
		t.Fatalf("condition = %q, want OK", fr.condition)
	}
	if sess.st != authenticatedState {
		t.Errorf("session state = %v, want authenticatedState", sess.st)
	}
}

func TestLoginCommandBadPassword(t *testing.T) {

	sess := newTestSession(t)
	out := make(chan response)
	cmd := &login{tag: "a1", userId: "alice@example.test", password: "wrong"}
	go cmd.execute(sess, out)

	responses := drain(out)
	fr := responses[0].(*finalResponse)
	if fr.condition != "NO" {
		t.Errorf("condition = %q, want NO", fr.condition)
	}
	if sess.st != notAuthenticated {
		t.Errorf("session state = %v, want notAuthenticated", sess.st)
	}
}

func TestLoginCommandWrongState(t *testing.T) {

	sess := newTestSession(t)
	sess.st = authenticatedState
	out := make(chan response)
	cmd := &login{tag: "a1", userId: "alice@example.test", password: "secret"}
	go cmd.execute(sess, out)

	responses := drain(out)
	fr := responses[0].(*finalResponse)
	if fr.condition != "BAD" {
		t.Errorf("condition = %q, want BAD (already authenticated)", fr.condition)
	}
}

func TestSelectCommand(t *testing.T) {

	sess := newTestSession(t)
	sess.st = authenticatedState
	sess.user = &auth.User{MaildirRoot: sess.server.Users.(*fakeStore).users["alice@example.test"].MaildirRoot}

	out := make(chan response)
	cmd := &selectMailbox{tag: "a1", mailbox: "INBOX"}
	go cmd.execute(sess, out)

	responses := drain(out)
	fr := responses[len(responses)-1].(*finalResponse)
	if fr.condition != "OK" {
		t.Fatalf("condition = %q, want OK", fr.condition)
	}
	if sess.st != selectedState {
		t.Errorf("session state = %v, want selectedState", sess.st)
	}
	if sess.folder == nil {
		t.Error("folder not set after SELECT")
	}
}

func TestExamineCommandUsesSelectWording(t *testing.T) {

	sess := newTestSession(t)
	sess.st = authenticatedState
	sess.user = &auth.User{MaildirRoot: sess.server.Users.(*fakeStore).users["alice@example.test"].MaildirRoot}

	out := make(chan response)
	cmd := &examine{tag: "a1", mailbox: "INBOX"}
	go cmd.execute(sess, out)

	responses := drain(out)
	fr := responses[len(responses)-1].(*finalResponse)
	if fr.message != "[READ-ONLY] SELECT command was successful" {
		t.Errorf("message = %q, want the literal SELECT wording even for EXAMINE", fr.message)
	}
}

func writeMessageFile(t *testing.T, dir, name, contents string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(contents), 0644); err != nil {
		t.Fatalf("writeMessageFile %s: %v", name, err)
	}
}

// TestUidFetchWildcardIncludesBoundaryMessage regresses the off-by-one in
// §4.4's "UID FETCH n:*" special case: the emitted range must start at
// n's own sequence number, not the one after it.
func TestUidFetchWildcardIncludesBoundaryMessage(t *testing.T) {

	sess := newTestSession(t)
	sess.st = authenticatedState
	root := sess.server.Users.(*fakeStore).users["alice@example.test"].MaildirRoot
	sess.user = &auth.User{MaildirRoot: root}

	writeMessageFile(t, filepath.Join(root, "cur"), "100", "Subject: one\n\nbody\n")
	writeMessageFile(t, filepath.Join(root, "cur"), "200", "Subject: two\n\nbody\n")
	writeMessageFile(t, filepath.Join(root, "cur"), "300", "Subject: three\n\nbody\n")

	folder, err := maildir.Open(root, false)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	sess.folder = folder
	sess.st = selectedState

	cmd := parseLine(t, "a4 UID FETCH 200:* (FLAGS)\r\n")

	out := make(chan response)
	go cmd.execute(sess, out)

	responses := drain(out)
	if len(responses) != 3 {
		t.Fatalf("got %d responses, want 2 FETCH lines + 1 tagged completion", len(responses))
	}

	first := responses[0].(*partialResponse).current.String()
	second := responses[1].(*partialResponse).current.String()
	if !strings.Contains(first, "2 FETCH") || !strings.Contains(first, "UID 200") {
		t.Errorf("first FETCH line = %q, want seqnum 2 / UID 200", first)
	}
	if !strings.Contains(second, "3 FETCH") || !strings.Contains(second, "UID 300") {
		t.Errorf("second FETCH line = %q, want seqnum 3 / UID 300", second)
	}

	fr := responses[2].(*finalResponse)
	if fr.tag != "a4" || fr.condition != "OK" {
		t.Errorf("got %+v", fr)
	}
}

func TestUidFetchOnEmptyFolderIsBad(t *testing.T) {

	sess := newTestSession(t)
	sess.st = authenticatedState
	root := sess.server.Users.(*fakeStore).users["alice@example.test"].MaildirRoot
	sess.user = &auth.User{MaildirRoot: root}

	folder, err := maildir.Open(root, false)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	sess.folder = folder
	sess.st = selectedState

	cmd := parseLine(t, "a5 UID FETCH 1:* (FLAGS)\r\n")

	out := make(chan response)
	go cmd.execute(sess, out)

	responses := drain(out)
	fr := responses[len(responses)-1].(*finalResponse)
	if fr.condition != "BAD" {
		t.Errorf("condition = %q, want BAD on an empty folder", fr.condition)
	}
}

func TestLogoutCommand(t *testing.T) {

	sess := newTestSession(t)
	out := make(chan response)
	go (&logout{tag: "a1"}).execute(sess, out)

	responses := drain(out)
	fr := responses[0].(*finalResponse)
	if fr.tag != "a1" || fr.condition != "OK" || fr.message != "LOGOUT completed" {
		t.Errorf("got %+v", fr)
	}
	if !fr.isClose() {
		t.Error("LOGOUT response should close the connection")
	}
	if fr.current.String() != "BYE IMAP4rev1 Server logging out" {
		t.Errorf("untagged line = %q", fr.current.String())
	}
}
