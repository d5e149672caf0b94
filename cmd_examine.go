package imapsrv

// examine gives information about a given mailbox
type examine struct {
	tag     string
	mailbox string
}

// createExamine creates an EXAMINE command
func createExamine(p *parser, tag string) command {
	mailbox := p.expectString(p.lexer.astring)

	return &examine{tag: tag, mailbox: mailbox}
}

// execute manages the EXAMINE command
func (c *examine) execute(sess *session, out chan response) {
	defer close(out)
	doSelect(sess, out, c.tag, c.mailbox, true)
}

func init() {
	registerCommand("examine", createExamine)
}
