package tls

import (
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateAndParse(t *testing.T, opts CertOptions) *x509.Certificate {
	t.Helper()
	dir := t.TempDir()
	certPath := filepath.Join(dir, "cert.pem")
	keyPath := filepath.Join(dir, "key.pem")

	require.NoError(t, GenerateSelfSignedCert(certPath, keyPath, opts))

	certPEM, err := os.ReadFile(certPath)
	require.NoError(t, err)
	block, _ := pem.Decode(certPEM)
	require.NotNil(t, block)
	require.Equal(t, "CERTIFICATE", block.Type)

	cert, err := x509.ParseCertificate(block.Bytes)
	require.NoError(t, err)

	keyPEM, err := os.ReadFile(keyPath)
	require.NoError(t, err)
	keyBlock, _ := pem.Decode(keyPEM)
	require.NotNil(t, keyBlock)
	require.Equal(t, "EC PRIVATE KEY", keyBlock.Type)
	_, err = x509.ParseECPrivateKey(keyBlock.Bytes)
	require.NoError(t, err)

	return cert
}

func TestGenerateSelfSignedCert(t *testing.T) {
	cert := generateAndParse(t, CertOptions{
		Hosts:        []string{"localhost", "console.example.org", "127.0.0.1"},
		Organization: "Example Provider",
		ValidityDays: 30,
	})

	assert.Equal(t, []string{"Example Provider"}, cert.Subject.Organization)
	assert.ElementsMatch(t, []string{"localhost", "console.example.org"}, cert.DNSNames)
	require.Len(t, cert.IPAddresses, 1)
	assert.Equal(t, "127.0.0.1", cert.IPAddresses[0].String())

	assert.Equal(t, 30*24*time.Hour, cert.NotAfter.Sub(cert.NotBefore))
}

func TestGenerateSelfSignedCert_Defaults(t *testing.T) {
	cert := generateAndParse(t, CertOptions{Hosts: []string{"localhost"}})

	assert.Equal(t, []string{"Development Server"}, cert.Subject.Organization)
	assert.Equal(t, 365*24*time.Hour, cert.NotAfter.Sub(cert.NotBefore))
}
