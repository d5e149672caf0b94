// Package config loads the TOML configuration file described in
// SPEC_FULL.md §6, using koanf the way fenilsonani-email-server's
// internal/config loads its own layered configuration.
package config

import (
	"log"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config mirrors the keys recognized in the configuration file.
type Config struct {
	Host        string `koanf:"host"`
	LMTPPort    int    `koanf:"lmtp_port"`
	IMAPPort    int    `koanf:"imap_port"`
	LMTPSSLPort int    `koanf:"lmtp_ssl_port"`
	IMAPSSLPort int    `koanf:"imap_ssl_port"`
	Users       string `koanf:"users"`
	PKCSFile    string `koanf:"pkcs_file"`
	PKCSPass    string `koanf:"pkcs_pass"`
	AuthBackend string `koanf:"auth_backend"`
	MySQLDSN    string `koanf:"mysql_dsn"`
	BoltPath    string `koanf:"bolt_path"`
}

// Defaults applied when the file is missing, unreadable, or fails to
// parse (§6: "Defaults applied on missing/unreadable/unparseable file").
func Defaults() *Config {
	return &Config{
		Host:        "127.0.0.1",
		LMTPPort:    3000,
		IMAPPort:    10000,
		IMAPSSLPort: 10001,
		LMTPSSLPort: 0, // absent by default
		Users:       "./users.json",
		AuthBackend: "json",
	}
}

// Load reads a TOML config file at path, falling back to Defaults on
// any failure (missing file, unreadable, unparseable) rather than
// aborting — matching §7's ParseError policy ("falls back to defaults
// where possible").
func Load(path string) *Config {
	cfg := Defaults()

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		log.Printf("config: could not load %s, using defaults: %v", path, err)
		return cfg
	}
	if err := k.Unmarshal("", cfg); err != nil {
		log.Printf("config: could not parse %s, using defaults: %v", path, err)
		return Defaults()
	}

	return cfg
}
