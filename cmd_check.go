package imapsrv

// check is a CHECK command.
type check struct {
	tag string
}

func createCheck(_ *parser, tag string) command {
	return &check{tag}
}

// execute a CHECK command (§4.4: EXPUNGE then Folder.Check, with no
// untagged EXPUNGE lines reported, unlike the dedicated EXPUNGE command).
func (c *check) execute(sess *session, out chan response) {
	defer close(out)

	if sess.st != selectedState {
		out <- bad(c.tag, "Invalid command")
		return
	}

	sess.folder.Expunge()
	if err := sess.folder.Check(); err != nil {
		out <- no(c.tag, "CHECK failed")
		return
	}

	out <- ok(c.tag, "Check completed")
}

func init() {
	registerCommand("check", createCheck)
}
