package jwt

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testConfig = Config{Issuer: "cms-admin", Audience: "console", TTL: time.Hour}

func TestEphemeralRoundTrip(t *testing.T) {
	m, err := LoadAndBuild(testConfig)
	require.NoError(t, err)
	assert.True(t, m.Ephemeral)

	token, jti, err := m.Generator.Generate(Subject{UserID: "01H", Username: "admin", Email: "a@b.com", Role: "admin"})
	require.NoError(t, err)
	assert.NotEmpty(t, jti)

	claims, err := m.Verifier.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "01H", claims.UserID)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, "a@b.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, jti, claims.ID)
}

func TestVerify_RejectsExpired(t *testing.T) {
	m, err := LoadAndBuild(testConfig)
	require.NoError(t, err)
	m.Generator.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := m.Generator.Generate(Subject{UserID: "1"})
	require.NoError(t, err)

	_, err = m.Verifier.Verify(token)
	assert.Error(t, err)
}

func TestVerify_RejectsForeignKeyAndAudience(t *testing.T) {
	a, err := LoadAndBuild(testConfig)
	require.NoError(t, err)
	b, err := LoadAndBuild(testConfig)
	require.NoError(t, err)

	token, _, err := a.Generator.Generate(Subject{UserID: "1"})
	require.NoError(t, err)
	_, err = b.Verifier.Verify(token)
	assert.Error(t, err, "signed by another key")

	other := testConfig
	other.Audience = "elsewhere"
	priv := a.Generator.priv
	foreign := Build(priv, &priv.PublicKey, other)
	_, err = foreign.Verifier.Verify(token)
	assert.Error(t, err, "wrong audience")
}

func TestGenerate_RequiresUserID(t *testing.T) {
	m, err := LoadAndBuild(testConfig)
	require.NoError(t, err)

	_, _, err = m.Generator.Generate(Subject{Username: "nobody"})
	assert.Error(t, err)
}

func TestLoadAndBuild_FromPEMFiles(t *testing.T) {
	dir := t.TempDir()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	pkcs8, err := x509.MarshalPKCS8PrivateKey(priv)
	require.NoError(t, err)
	pkix, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	require.NoError(t, err)

	cfg := testConfig
	cfg.PrivPath = filepath.Join(dir, "private.pem")
	cfg.PubPath = filepath.Join(dir, "public.pem")
	require.NoError(t, os.WriteFile(cfg.PrivPath, pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: pkcs8}), 0o600))
	require.NoError(t, os.WriteFile(cfg.PubPath, pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pkix}), 0o600))

	m, err := LoadAndBuild(cfg)
	require.NoError(t, err)
	assert.False(t, m.Ephemeral)

	token, _, err := m.Generator.Generate(Subject{UserID: "1"})
	require.NoError(t, err)
	_, err = m.Verifier.Verify(token)
	assert.NoError(t, err)
}

func TestLoadRSAPrivateKeyFromPEM_Garbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.pem")
	require.NoError(t, os.WriteFile(path, []byte("not a key"), 0o600))

	_, err := LoadRSAPrivateKeyFromPEM(path)
	assert.Error(t, err)
}
