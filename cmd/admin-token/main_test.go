package main

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orbit.backend/internal/config"
	"orbit.backend/pkg/jwt"
)

type stubIssuer struct {
	pair *jwt.TokenPair
	err  error

	gotID    uuid.UUID
	gotEmail string
	gotRole  string
}

func (s *stubIssuer) GenerateTokenPair(operatorID uuid.UUID, email, role string) (*jwt.TokenPair, error) {
	s.gotID, s.gotEmail, s.gotRole = operatorID, email, role
	return s.pair, s.err
}

func testConfig() *config.Config {
	return &config.Config{JWT: config.JWTConfig{
		Secret:        "test-secret",
		AccessExpiry:  time.Hour,
		RefreshExpiry: 24 * time.Hour,
	}}
}

func TestParseOperatorID(t *testing.T) {
	_, err := parseOperatorID("")
	assert.Error(t, err)

	_, err = parseOperatorID("bad-uuid")
	assert.Error(t, err)

	_, err = parseOperatorID(uuid.Nil.String())
	assert.Error(t, err)

	id := uuid.New()
	got, err := parseOperatorID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestRunAdminToken_PrintsTokens(t *testing.T) {
	id := uuid.New()
	exp := time.Date(2026, 2, 15, 12, 0, 0, 0, time.UTC)
	issuer := &stubIssuer{pair: &jwt.TokenPair{AccessToken: "acc", RefreshToken: "ref", ExpiresAt: exp}}
	var out bytes.Buffer

	err := runAdminToken([]string{"-operator-id", id.String(), "-email", " ops@orbit.test "}, adminTokenDeps{
		loadEnv: func() error { return errors.New("no .env") },
		loadCfg: testConfig,
		issuer:  func(*config.Config) tokenIssuer { return issuer },
		out:     &out,
	})
	require.NoError(t, err)

	assert.Equal(t, id, issuer.gotID)
	assert.Equal(t, "ops@orbit.test", issuer.gotEmail)
	assert.Equal(t, jwt.RoleAdmin, issuer.gotRole)

	text := out.String()
	assert.Contains(t, text, "operator_id="+id.String())
	assert.Contains(t, text, "expires_at=2026-02-15T12:00:00Z")
	assert.Contains(t, text, "ACCESS_TOKEN=acc")
	assert.Contains(t, text, "REFRESH_TOKEN=ref")
}

func TestRunAdminToken_IssuedTokenValidates(t *testing.T) {
	id := uuid.New()
	var out bytes.Buffer

	err := runAdminToken([]string{"-operator-id", id.String()}, adminTokenDeps{
		loadEnv: func() error { return nil },
		loadCfg: testConfig,
		out:     &out,
	})
	require.NoError(t, err)

	var access string
	for _, line := range strings.Split(out.String(), "\n") {
		if strings.HasPrefix(line, "ACCESS_TOKEN=") {
			access = strings.TrimPrefix(line, "ACCESS_TOKEN=")
		}
	}
	require.NotEmpty(t, access)

	claims, err := jwt.NewJWTService("test-secret", time.Hour, 24*time.Hour).ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, id, claims.OperatorID)
	assert.True(t, claims.HasRole(jwt.RoleAdmin))
	assert.True(t, claims.IsAccess())
}

func TestRunAdminToken_Errors(t *testing.T) {
	t.Run("missing operator", func(t *testing.T) {
		err := runAdminToken(nil, adminTokenDeps{loadCfg: testConfig, loadEnv: func() error { return nil }})
		assert.ErrorContains(t, err, "--operator-id is required")
	})

	t.Run("unknown flag", func(t *testing.T) {
		var out bytes.Buffer
		err := runAdminToken([]string{"-nope"}, adminTokenDeps{out: &out})
		assert.Error(t, err)
	})

	t.Run("issuer failure", func(t *testing.T) {
		issuer := &stubIssuer{err: errors.New("sign failed")}
		err := runAdminToken([]string{"-operator-id", uuid.NewString()}, adminTokenDeps{
			loadEnv: func() error { return nil },
			loadCfg: testConfig,
			issuer:  func(*config.Config) tokenIssuer { return issuer },
			out:     &bytes.Buffer{},
		})
		assert.ErrorContains(t, err, "failed issuing token")
	})
}

func TestMain_ExitsWhenOperatorIDMissing(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_ADMIN_TOKEN") == "1" {
		os.Args = []string{"admin-token"}
		main()
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestMain_ExitsWhenOperatorIDMissing")
	cmd.Env = append(os.Environ(), "GO_WANT_HELPER_ADMIN_TOKEN=1")
	err := cmd.Run()
	assert.Error(t, err, "expected helper process to fail when --operator-id is missing")
}
