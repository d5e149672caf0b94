package imapsrv

import "fmt"

// expunge is an EXPUNGE command (§4.3's EXPUNGE operation).
type expunge struct {
	tag string
}

func createExpunge(_ *parser, tag string) command {
	return &expunge{tag: tag}
}

// execute an EXPUNGE command
func (c *expunge) execute(sess *session, out chan response) {
	defer close(out)

	if sess.st != selectedState {
		out <- bad(c.tag, "Invalid command")
		return
	}

	for _, idx := range sess.folder.Expunge() {
		resp := partial()
		resp.putLine(fmt.Sprintf("%d EXPUNGE", idx))
		out <- resp
	}

	out <- ok(c.tag, "expunge completed")
}

func init() {
	registerCommand("expunge", createExpunge)
}
