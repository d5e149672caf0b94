package imapsrv

// login is a LOGIN command (§4.4: NotAuthenticated -> Authenticated).
type login struct {
	tag      string
	userId   string
	password string
}

// createLogin creates a LOGIN command
func createLogin(p *parser, tag string) command {
	userId := p.expectString(p.lexer.astring)
	password := p.expectString(p.lexer.astring)

	return &login{tag: tag, userId: userId, password: password}
}

// execute a LOGIN command
func (c *login) execute(sess *session, out chan response) {
	defer close(out)

	if sess.st != notAuthenticated {
		out <- bad(c.tag, "Invalid command")
		return
	}

	user, err := sess.server.Users.Authenticate(c.userId, c.password)
	if err != nil {
		out <- no(c.tag, "invalid username or password")
		return
	}

	sess.user = user
	sess.st = authenticatedState
	out <- ok(c.tag, "logged in successfully as "+c.userId)
}

func init() {
	registerCommand("login", createLogin)
}
