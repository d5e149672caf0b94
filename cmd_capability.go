package imapsrv

// capability is a CAPABILITY command
type capability struct {
	tag string
}

// createCapability creates a CAPABILITY command
func createCapability(p *parser, tag string) command {
	return &capability{tag: tag}
}

// execute a CAPABILITY command (§4.4): the response is the same
// regardless of session state.
func (c *capability) execute(s *session, out chan response) {
	defer close(out)
	out <- ok(c.tag, "CAPABILITY completed").
		putLine("CAPABILITY IMAP4rev1 CHILDREN")
}

func init() {
	registerCommand("capability", createCapability)
}
