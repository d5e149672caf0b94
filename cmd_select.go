package imapsrv

import (
	"fmt"

	"maildirsrv/internal/imaperrors"
	"maildirsrv/maildir"
)

// selectMailbox is a SELECT command
type selectMailbox struct {
	tag     string
	mailbox string
}

// createSelect creates a SELECT command
func createSelect(p *parser, tag string) command {
	mailbox := p.expectString(p.lexer.astring)

	return &selectMailbox{tag: tag, mailbox: mailbox}
}

// execute a SELECT command
func (c *selectMailbox) execute(sess *session, out chan response) {
	defer close(out)
	doSelect(sess, out, c.tag, c.mailbox, false)
}

// doSelect is shared by SELECT and EXAMINE (§4.4): open the folder either
// writable or readonly, then render the untagged mailbox status lines
// followed by the tagged completion line.
func doSelect(sess *session, out chan response, tag string, mailbox string, examine bool) {
	if sess.st == notAuthenticated {
		out <- bad(tag, "Invalid command")
		return
	}

	folder, err := sess.selectFolder(mailbox, examine)
	if err != nil {
		if ie, ok := err.(*imaperrors.Error); ok {
			out <- createFinalResponse(tag, ie.Condition(), ie.Error())
			return
		}
		out <- no(tag, err.Error())
		return
	}

	sess.folder = folder
	sess.st = selectedState

	out <- putFolderInfo(tag, folder)
}

// putFolderInfo builds the untagged EXISTS/RECENT/[UNSEEN]/FLAGS/
// PERMANENTFLAGS lines and the tagged completion line, byte-exact per
// §4.4's SELECT/EXAMINE response. The completion line always names
// SELECT, even when reached via EXAMINE: the original's
// perform_select/select_response renders "SELECT command was
// successful" for both paths.
func putFolderInfo(tag string, f *maildir.Folder) response {
	const flagList = `(\Answered \Deleted \Draft \Flagged \Seen)`

	res := ok(tag, "")
	res.putLine(fmt.Sprintf("%d EXISTS", f.Exists))
	res.putLine(fmt.Sprintf("%d RECENT", f.Recent))
	if f.Unseen >= 1 && f.Unseen <= f.Exists {
		res.putLine(fmt.Sprintf("OK [UNSEEN %d] Message %dth is the first unseen", f.Unseen, f.Unseen))
	}
	res.putLine("FLAGS " + flagList)
	res.putLine("OK [PERMANENTFLAGS " + flagList + "] Permanent flags")

	access := "READ-WRITE"
	if f.ReadOnly {
		access = "READ-ONLY"
	}
	res.(*finalResponse).message = "[" + access + "] SELECT command was successful"

	return res
}

func init() {
	registerCommand("select", createSelect)
}
