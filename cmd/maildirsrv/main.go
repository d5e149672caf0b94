// Command maildirsrv starts the IMAP and LMTP listeners described in
// SPEC_FULL.md §6, wiring together configuration, the configured
// authentication backend, and an optional TLS acceptor. Grounded on the
// teacher's demo/complete/main.go, which puts a Server together from
// its constituent pieces (auth store, mailstore, listeners) the same
// way.
package main

import (
	"crypto/tls"
	"flag"
	"log"
	"os"
	"strconv"

	imapsrv "maildirsrv"
	"maildirsrv/auth"
	"maildirsrv/auth/boltstore"
	"maildirsrv/auth/mysqlstore"
	"maildirsrv/internal/config"
	"maildirsrv/internal/tlsconfig"
	"maildirsrv/internal/userdb"
)

func main() {
	configPath := flag.String("config", "./maildirsrv.toml", "path to the TOML configuration file")
	flag.Parse()

	cfg := config.Load(*configPath)

	users, err := openAuthStore(cfg)
	if err != nil {
		log.Fatalln("maildirsrv: could not open auth backend:", err)
	}

	tlsCfg := loadTLSConfig(cfg)

	server := imapsrv.NewServer(cfg, users, tlsCfg)

	errc := make(chan error, 4)
	go func() { errc <- server.ListenIMAP(addr(cfg.Host, cfg.IMAPPort)) }()
	go func() { errc <- server.ListenLMTP(addr(cfg.Host, cfg.LMTPPort)) }()
	if cfg.IMAPSSLPort != 0 {
		go func() { errc <- server.ListenIMAPS(addr(cfg.Host, cfg.IMAPSSLPort)) }()
	}
	if cfg.LMTPSSLPort != 0 {
		go func() { errc <- server.ListenLMTPS(addr(cfg.Host, cfg.LMTPSSLPort)) }()
	}

	for err := range errc {
		if err != nil {
			log.Fatalln("maildirsrv: listener failed:", err)
		}
	}
}

// openAuthStore selects the auth.Store backend named by cfg.AuthBackend
// ("json" | "bolt" | "mysql"), defaulting to the JSON user database.
func openAuthStore(cfg *config.Config) (auth.Store, error) {
	switch cfg.AuthBackend {
	case "bolt":
		return boltstore.Open(cfg.BoltPath)
	case "mysql":
		return mysqlstore.Open(cfg.MySQLDSN)
	default:
		return userdb.Load(cfg.Users)
	}
}

// loadTLSConfig builds a *tls.Config from the configured PKCS#12
// archive. A missing PKCSFile disables STARTTLS and the implicit-TLS
// listeners rather than failing startup (§7's ConfigError policy).
func loadTLSConfig(cfg *config.Config) *tls.Config {
	if cfg.PKCSFile == "" {
		return nil
	}
	data, err := os.ReadFile(cfg.PKCSFile)
	if err != nil {
		log.Printf("maildirsrv: could not read %s, TLS disabled: %v", cfg.PKCSFile, err)
		return nil
	}
	tc, err := tlsconfig.Load(data, cfg.PKCSPass)
	if err != nil {
		log.Printf("maildirsrv: could not decode %s, TLS disabled: %v", cfg.PKCSFile, err)
		return nil
	}
	return tc
}

func addr(host string, port int) string {
	return host + ":" + strconv.Itoa(port)
}
