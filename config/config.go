package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	OutputDir  string
	ListenAddr string
	IamToken   string
	FolderID   string
	Language   string
	GPTModel   string
}

// LoadConfig reads configuration from a .env file (if present) and the
// process environment. It is called once at startup; the result is
// read-only thereafter.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	return &Config{
		OutputDir:  getenv("OUTPUT_DIR", "output"),
		ListenAddr: getenv("LISTEN_ADDR", ":8080"),
		IamToken:   os.Getenv("IAM_TOKEN"),
		FolderID:   os.Getenv("FOLDER_ID"),
		Language:   getenv("LANGUAGE", "en-US"),
		GPTModel:   getenv("GPT_MODEL", "yandexgpt-lite"),
	}, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
