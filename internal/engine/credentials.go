package engine

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNoAPIKey is returned when neither the environment nor the credentials file holds a key.
var ErrNoAPIKey = errors.New("YouTube API key not configured: set YOUTUBE_API_KEY or add youtube_api_key to credentials.yml")

// credentialsFile mirrors credentials.yml.
type credentialsFile struct {
	YouTubeAPIKey string `yaml:"youtube_api_key"`
}

// ResolveAPIKey returns envKey when set, else the youtube_api_key field of the
// YAML file at path. A missing file is not an error on its own.
func ResolveAPIKey(envKey, path string) (string, error) {
	if k := strings.TrimSpace(envKey); k != "" {
		return k, nil
	}
	if path == "" {
		return "", ErrNoAPIKey
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNoAPIKey
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	var cf credentialsFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return "", fmt.Errorf("parse %s: %w", path, err)
	}
	if k := strings.TrimSpace(cf.YouTubeAPIKey); k != "" {
		return k, nil
	}
	return "", ErrNoAPIKey
}
