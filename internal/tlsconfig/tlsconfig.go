// Package tlsconfig builds a *tls.Config from a PKCS#12 archive, the
// TLS external collaborator described in SPEC_FULL.md §1/§6.
package tlsconfig

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"

	"golang.org/x/crypto/pkcs12"
)

// Load decodes a PKCS#12 archive and builds a Mozilla-intermediate-style
// *tls.Config: the leaf certificate and private key are used directly,
// and any additional chain certificates are appended in the reverse
// order pkcs12.DecodeChain returns them (leaf-first, root-last).
func Load(pfxData []byte, password string) (*tls.Config, error) {
	key, leaf, caCerts, err := pkcs12.DecodeChain(pfxData, password)
	if err != nil {
		return nil, fmt.Errorf("tlsconfig: decoding PKCS#12 archive: %w", err)
	}

	chain := [][]byte{leaf.Raw}
	for i := len(caCerts) - 1; i >= 0; i-- {
		chain = append(chain, caCerts[i].Raw)
	}

	cert := tls.Certificate{
		Certificate: chain,
		PrivateKey:  key,
		Leaf:        leaf,
	}

	pool := x509.NewCertPool()
	for _, ca := range caCerts {
		pool.AddCert(ca)
	}

	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
		RootCAs:      pool,
	}, nil
}
