package env

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"ui-template/internal/application/port/output"
)

// Environment records which .env files Load put into the process
// environment. Configuration reads them from there as UITEST_* variables.
type Environment struct {
	AppEnv string
	Files  []string
}

// Load reads .env and then .env.$APP_ENV from dir. The second file overrides
// the first; variables already set in the process win over both .env files.
func Load(dir string, logger output.LoggerPort) *Environment {
	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "dev"
	}
	e := &Environment{AppEnv: appEnv}

	base := filepath.Join(dir, ".env")
	if err := godotenv.Load(base); err == nil {
		e.Files = append(e.Files, base)
	} else if logger != nil {
		logger.Debug("no .env file with secrets found", "path", base)
	}

	overlay := filepath.Join(dir, fmt.Sprintf(".env.%s", appEnv))
	if err := godotenv.Overload(overlay); err == nil {
		e.Files = append(e.Files, overlay)
	} else if logger != nil {
		logger.Debug("no environment overlay", "path", overlay)
	}

	if logger != nil {
		logger.Info("environment loaded", "app_env", appEnv, "files", e.Files)
	}
	return e
}
