package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from a .env file. An empty path
// means ".env" in the working directory. A missing file is not an error.
// Variables already set in the environment are left alone.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	return LoadDotEnvFromFiles(path)
}

// LoadDotEnvFromFiles loads several .env files in order. The first file to
// set a variable wins. Missing files are skipped.
func LoadDotEnvFromFiles(paths ...string) error {
	for _, path := range paths {
		if !fileExists(path) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
}

// OverloadDotEnvFromFiles loads several .env files in order, each
// overwriting values set before it, including the process environment.
func OverloadDotEnvFromFiles(paths ...string) error {
	for _, path := range paths {
		if !fileExists(path) {
			continue
		}
		if err := godotenv.Overload(path); err != nil {
			return fmt.Errorf("overload %s: %w", path, err)
		}
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}

// LoadConfig reads the optional .env file, then the environment, and returns
// the resulting AppConfig.
func LoadConfig(envPath string) (AppConfig, error) {
	if err := LoadDotEnv(envPath); err != nil {
		return AppConfig{}, err
	}

	envCfg, err := LoadFromEnv()
	if err != nil {
		return AppConfig{}, err
	}

	return envCfg.ToAppConfig()
}
