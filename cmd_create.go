package imapsrv

import (
	"os"
	"path/filepath"
)

// create represents the CREATE command
type create struct {
	tag     string
	mailbox string
}

// createCreate creates an CREATE command
func createCreate(p *parser, tag string) command {
	mailbox := p.expectString(p.lexer.astring)

	return &create{tag: tag, mailbox: mailbox}
}

// execute handles the CREATE command (§4.4): mkdir -p <mbox>/cur,
// <mbox>/new.
func (c *create) execute(sess *session, out chan response) {
	defer close(out)

	if sess.st == notAuthenticated {
		out <- bad(c.tag, "Invalid command")
		return
	}

	path := mailboxPath(sess.user.MaildirRoot, c.mailbox)
	if err := os.MkdirAll(filepath.Join(path, "cur"), 0755); err != nil {
		out <- no(c.tag, "create failure: can't create mailbox with that name")
		return
	}
	if err := os.MkdirAll(filepath.Join(path, "new"), 0755); err != nil {
		out <- no(c.tag, "create failure: can't create mailbox with that name")
		return
	}

	out <- ok(c.tag, "CREATE successful.")
}

func init() {
	registerCommand("create", createCreate)
}
