package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"orbit.backend/internal/config"
	"orbit.backend/pkg/jwt"
)

type tokenIssuer interface {
	GenerateTokenPair(operatorID uuid.UUID, email, role string) (*jwt.TokenPair, error)
}

type adminTokenDeps struct {
	loadEnv func() error
	loadCfg func() *config.Config
	issuer  func(cfg *config.Config) tokenIssuer
	out     io.Writer
}

func defaultAdminTokenDeps() adminTokenDeps {
	return adminTokenDeps{
		loadEnv: func() error { return godotenv.Load() },
		loadCfg: config.Load,
		issuer: func(cfg *config.Config) tokenIssuer {
			return jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiry, cfg.JWT.RefreshExpiry)
		},
		out: os.Stdout,
	}
}

func parseOperatorID(raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, fmt.Errorf("--operator-id is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid --operator-id: %w", err)
	}
	if id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("--operator-id must not be the nil uuid")
	}
	return id, nil
}

func runAdminToken(args []string, deps adminTokenDeps) error {
	def := defaultAdminTokenDeps()
	if deps.loadEnv == nil {
		deps.loadEnv = def.loadEnv
	}
	if deps.loadCfg == nil {
		deps.loadCfg = def.loadCfg
	}
	if deps.issuer == nil {
		deps.issuer = def.issuer
	}
	if deps.out == nil {
		deps.out = def.out
	}

	fs := flag.NewFlagSet("admin-token", flag.ContinueOnError)
	operatorFlag := fs.String("operator-id", "", "operator UUID (required)")
	emailFlag := fs.String("email", "", "operator email (optional)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	operatorID, err := parseOperatorID(*operatorFlag)
	if err != nil {
		return err
	}

	if err := deps.loadEnv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := deps.loadCfg()
	pair, err := deps.issuer(cfg).GenerateTokenPair(operatorID, strings.TrimSpace(*emailFlag), jwt.RoleAdmin)
	if err != nil {
		return fmt.Errorf("failed issuing token: %w", err)
	}

	_, _ = fmt.Fprintln(deps.out, "Issued ADMIN operator token")
	_, _ = fmt.Fprintf(deps.out, "operator_id=%s\n", operatorID.String())
	_, _ = fmt.Fprintf(deps.out, "expires_at=%s\n", pair.ExpiresAt.UTC().Format(time.RFC3339))
	_, _ = fmt.Fprintf(deps.out, "ACCESS_TOKEN=%s\n", pair.AccessToken)
	_, _ = fmt.Fprintf(deps.out, "REFRESH_TOKEN=%s\n", pair.RefreshToken)
	return nil
}

func main() {
	if err := runAdminToken(os.Args[1:], defaultAdminTokenDeps()); err != nil {
		log.Fatal(err)
	}
}
