package imapsrv

// closeCmd is the CLOSE command. It is not named "close" to avoid
// shadowing the builtin close() used throughout this package's
// execute methods.
type closeCmd struct {
	tag string
}

func createClose(_ *parser, tag string) command {
	return &closeCmd{tag: tag}
}

// execute a CLOSE command (§4.4): EXPUNGE + check, drop the folder, and
// fall back to Authenticated.
func (c *closeCmd) execute(sess *session, out chan response) {
	defer close(out)

	if sess.st != selectedState {
		out <- bad(c.tag, "Invalid command")
		return
	}

	sess.closeFolder()
	out <- ok(c.tag, "close completed")
}

func init() {
	registerCommand("close", createClose)
}
