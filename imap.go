// Package imapsrv implements the IMAP4rev1 server described in
// SPEC_FULL.md: connection/session handling lives here and in
// session.go; lmtp.go handles mail delivery; the cmd_*.go files
// implement individual verbs against a *session.
package imapsrv

import (
	"bufio"
	"crypto/tls"
	"fmt"
	"log"
	"net"

	"maildirsrv/auth"
	"maildirsrv/internal/config"
	"maildirsrv/internal/logging"
)

// Server bundles the state every connection reads: configuration, the
// user directory, and an optional TLS acceptor. It is immutable after
// construction and freely shared across goroutines (§5).
type Server struct {
	Config    *config.Config
	Users     auth.Store
	TLSConfig *tls.Config // nil disables STARTTLS and the *S listeners
}

// NewServer creates a Server ready to accept IMAP and LMTP connections.
func NewServer(cfg *config.Config, users auth.Store, tlsConfig *tls.Config) *Server {
	return &Server{Config: cfg, Users: users, TLSConfig: tlsConfig}
}

// ListenIMAP starts the plain-TCP IMAP listener. STARTTLS is offered on
// it whenever s.TLSConfig is set.
func (s *Server) ListenIMAP(addr string) error {
	return s.serveIMAP(addr, unencryptedLevel, nil)
}

// ListenIMAPS starts the implicit-TLS IMAP listener. Per §7's
// ConfigError policy, it is a no-op returning nil if no TLS acceptor is
// configured, rather than failing startup.
func (s *Server) ListenIMAPS(addr string) error {
	if s.TLSConfig == nil {
		log.Print("IMAPS listener not started: no TLS acceptor configured")
		return nil
	}
	return s.serveIMAP(addr, tlsLevel, s.TLSConfig)
}

func (s *Server) serveIMAP(addr string, level encryptionLevel, tlsConfig *tls.Config) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("imap: cannot listen on %s: %w", addr, err)
	}
	if tlsConfig != nil {
		listener = tls.NewListener(listener, tlsConfig)
	}
	log.Print("IMAP server listening on ", addr)

	clientNumber := 1
	for {
		conn, err := listener.Accept()
		if err != nil {
			log.Print("IMAP accept error, ", err)
			continue
		}
		go s.handleIMAP(conn, clientNumber, level)
		clientNumber++
	}
}

// handleIMAP drives one connection end to end: write the greeting, then
// read and dispatch commands until the session closes. STARTTLS's
// buffer swap (response.replaceConn) is applied here, between writing a
// response and reading the next command.
func (s *Server) handleIMAP(conn net.Conn, id int, level encryptionLevel) {
	defer conn.Close()
	lg := logging.New("IMAP", id)

	defer func() {
		if e := recover(); e != nil {
			if _, isIO := e.(ioError); isIO {
				return
			}
			lg.Println("panic:", e)
			if err, ok := e.(error); ok {
				bufout := bufio.NewWriter(conn)
				fatalResponse(err).writeTo(bufout)
			}
		}
	}()

	bufout := bufio.NewWriter(conn)
	if err := ok("*", "Server ready.").writeTo(bufout); err != nil {
		lg.Println(err)
		return
	}

	sess := createSession(id, s, conn, level)
	bufin := bufio.NewReader(conn)
	parser := createParser(bufin)

	for {
		cmd := parser.next()

		out := make(chan response)
		go cmd.execute(sess, out)

		for resp := range out {
			if err := resp.writeTo(bufout); err != nil {
				lg.Println(err)
				return
			}
			if newConn := resp.replaceConn(); newConn != nil {
				sess.conn = newConn
				conn = newConn
				bufin = bufio.NewReader(newConn)
				bufout = bufio.NewWriter(newConn)
				parser = createParser(bufin)
			}
			if resp.isClose() {
				return
			}
		}
	}
}
