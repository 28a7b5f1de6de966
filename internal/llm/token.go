package llm

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// tokenEnvVars are checked, in order, before the Copilot config files.
var tokenEnvVars = []string{"TRAINERDESK_GITHUB_TOKEN", "GITHUB_TOKEN"}

// copilotFiles are written by the Copilot editor plugins after sign-in.
var copilotFiles = []string{"hosts.json", "apps.json"}

// ErrNoGitHubToken is returned when neither the environment nor a Copilot
// sign-in provides a token.
var ErrNoGitHubToken = errors.New("GitHub token not found: set GITHUB_TOKEN or sign in to GitHub Copilot in your editor")

// LoadGitHubToken returns the GitHub OAuth token used for Copilot, from the
// environment first and then the Copilot plugin config files.
func LoadGitHubToken() (string, error) {
	for _, name := range tokenEnvVars {
		if token := os.Getenv(name); token != "" {
			return token, nil
		}
	}

	dir, err := userConfigDir()
	if err != nil {
		return "", err
	}
	for _, name := range copilotFiles {
		data, err := os.ReadFile(filepath.Join(dir, "github-copilot", name))
		if err != nil {
			continue
		}
		if token := oauthToken(data); token != "" {
			return token, nil
		}
	}
	return "", ErrNoGitHubToken
}

// userConfigDir honours XDG_CONFIG_HOME everywhere, which is where the
// Copilot plugins look on macOS too, unlike os.UserConfigDir.
func userConfigDir() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir, nil
	}
	if runtime.GOOS == "windows" {
		if dir := os.Getenv("LOCALAPPDATA"); dir != "" {
			return dir, nil
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	if runtime.GOOS == "windows" {
		return filepath.Join(home, "AppData", "Local"), nil
	}
	return filepath.Join(home, ".config"), nil
}

// oauthToken returns the token of the first github.com entry in a Copilot
// config file, keyed by host ("github.com") or app ("github.com:Iv1...").
func oauthToken(data []byte) string {
	var entries map[string]struct {
		OAuthToken string `json:"oauth_token"`
	}
	if json.Unmarshal(data, &entries) != nil {
		return ""
	}
	for key, entry := range entries {
		if strings.Contains(key, "github.com") && entry.OAuthToken != "" {
			return entry.OAuthToken
		}
	}
	return ""
}
