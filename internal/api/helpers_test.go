package api_test

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"userservice/internal/config"

	"github.com/stretchr/testify/require"
)

var testPublicKey = func() string { //nolint: gochecknoglobals
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		panic(err)
	}
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		panic(err)
	}

	return string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))
}()

func loadConfig(t *testing.T) *config.Config {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("environment: development\n"), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	return cfg
}
