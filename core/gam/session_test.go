package gam

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// serviceAccountJSON builds a syntactically valid service-account credential
// whose token endpoint points at the test server.
func serviceAccountJSON(t *testing.T, tokenURL string) string {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	pemBytes := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})

	raw, err := json.Marshal(map[string]string{
		"type":           "service_account",
		"project_id":     "sync-test",
		"private_key_id": "key-1",
		"private_key":    string(pemBytes),
		"client_email":   "sync@sync-test.iam.gserviceaccount.com",
		"token_uri":      tokenURL,
	})
	require.NoError(t, err)
	return string(raw)
}

func tokenServer(t *testing.T, status int) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			http.Error(w, "access denied", status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"test-token","token_type":"Bearer","expires_in":3600}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewSession(t *testing.T) {
	srv := tokenServer(t, http.StatusOK)

	session, err := NewSession(context.Background(), Config{
		NetworkCode:     "123456",
		CredentialsJSON: serviceAccountJSON(t, srv.URL),
		Endpoint:        "https://admanager.googleapis.com/",
		ApplicationName: "sync-test",
	})

	require.NoError(t, err)
	assert.Equal(t, "123456", session.NetworkCode())
	// Trailing endpoint slash is normalised away.
	assert.Equal(t, "https://admanager.googleapis.com", session.endpoint)
}

func TestNewSession_CredentialsFromFile(t *testing.T) {
	srv := tokenServer(t, http.StatusOK)

	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte(serviceAccountJSON(t, srv.URL)), 0o600))

	session, err := NewSession(context.Background(), Config{
		NetworkCode:     "123456",
		CredentialsFile: path,
	})

	require.NoError(t, err)
	assert.Equal(t, "123456", session.NetworkCode())
}

func TestNewSession_RejectedCredential(t *testing.T) {
	srv := tokenServer(t, http.StatusUnauthorized)

	_, err := NewSession(context.Background(), Config{
		NetworkCode:     "123456",
		CredentialsJSON: serviceAccountJSON(t, srv.URL),
	})

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "fetching token", authErr.Reason)
}

func TestNewSession_MalformedCredential(t *testing.T) {
	_, err := NewSession(context.Background(), Config{
		NetworkCode:     "123456",
		CredentialsJSON: "{not json",
	})

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "decoding credentials", authErr.Reason)
}

func TestNewSession_MissingNetworkCode(t *testing.T) {
	_, err := NewSession(context.Background(), Config{})
	assert.ErrorContains(t, err, "network code")
}

func TestNewSession_MissingCredentials(t *testing.T) {
	_, err := NewSession(context.Background(), Config{NetworkCode: "123456"})
	assert.ErrorContains(t, err, "no credentials configured")
}

func TestNewSession_UnreadableCredentialsFile(t *testing.T) {
	_, err := NewSession(context.Background(), Config{
		NetworkCode:     "123456",
		CredentialsFile: filepath.Join(t.TempDir(), "does-not-exist.json"),
	})

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "reading credentials file", authErr.Reason)
}
