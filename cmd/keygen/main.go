// AngelaMos | 2026
// main.go

package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/carterperez-dev/templates/go-accounts/internal/auth"
)

func main() {
	_ = godotenv.Load()

	privatePath := flag.String("private", envOr("JWT_PRIVATE_KEY_PATH", "keys/private.pem"), "private key output path")
	publicPath := flag.String("public", envOr("JWT_PUBLIC_KEY_PATH", "keys/public.pem"), "public key output path")
	force := flag.Bool("force", false, "overwrite existing keys")
	flag.Parse()

	if err := run(*privatePath, *publicPath, *force); err != nil {
		slog.Error("keygen failed", "error", err)
		os.Exit(1)
	}
}

func run(privatePath, publicPath string, force bool) error {
	if !force {
		if _, err := os.Stat(privatePath); err == nil {
			return fmt.Errorf("%s exists, pass -force to overwrite", privatePath)
		}
	}

	for _, p := range []string{privatePath, publicPath} {
		if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
			return fmt.Errorf("create key directory: %w", err)
		}
	}

	if err := auth.GenerateKeyPair(privatePath, publicPath); err != nil {
		return err
	}

	slog.Info("ES256 key pair written", "private", privatePath, "public", publicPath)
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
