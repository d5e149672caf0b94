package imapsrv

import "crypto/tls"

// starttls is a STARTTLS command.
type starttls struct {
	tag string
}

// createStarttls creates a STARTTLS command
func createStarttls(p *parser, tag string) command {
	return &starttls{tag: tag}
}

// execute a STARTTLS command (§4.4): succeeds only from an un-upgraded
// plain TCP stream when a TLS acceptor is configured, and upgrades the
// connection only after the tagged OK has been written.
func (c *starttls) execute(sess *session, out chan response) {
	defer close(out)

	if sess.encryption != unencryptedLevel {
		out <- bad(c.tag, "Invalid command")
		return
	}
	if sess.server.TLSConfig == nil {
		out <- bad(c.tag, "Invalid command")
		return
	}

	tlsConn := tls.Server(sess.conn, sess.server.TLSConfig)
	sess.encryption = tlsLevel

	out <- ok(c.tag, "Begin TLS negotiation now").shouldReplaceBuffers(tlsConn)
}

func init() {
	registerCommand("starttls", createStarttls)
}
