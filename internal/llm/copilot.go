package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/javiermolinar/trainerdesk/internal/config"
)

const (
	copilotTokenURL = "https://api.github.com/copilot_internal/v2/token"
	copilotBaseURL  = "https://api.githubcopilot.com"

	userAgent = "Trainerdesk/1.0"
)

// CopilotClient uses the GitHub Copilot chat API with a short-lived bearer
// token exchanged from the user's GitHub login.
type CopilotClient struct {
	chat openAIChat
}

type tokenResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

// newCopilotClient expects a config already passed through Resolve.
func newCopilotClient(cfg config.LLMConfig) (*CopilotClient, error) {
	httpClient := &http.Client{Timeout: 30 * time.Second}

	githubToken, err := LoadGitHubToken()
	if err != nil {
		return nil, fmt.Errorf("loading GitHub token: %w", err)
	}
	bearerToken, err := exchangeToken(httpClient, copilotTokenURL, githubToken)
	if err != nil {
		return nil, fmt.Errorf("exchanging token: %w", err)
	}

	client := openai.NewClient(
		option.WithBaseURL(cfg.BaseURL),
		option.WithAPIKey(bearerToken),
		option.WithHTTPClient(httpClient),
		option.WithHeader("Editor-Version", userAgent),
		option.WithHeader("Editor-Plugin-Version", userAgent),
		option.WithHeader("Copilot-Integration-Id", "vscode-chat"),
	)
	return &CopilotClient{chat: openAIChat{client: client, model: cfg.Model, label: "copilot"}}, nil
}

// exchangeToken exchanges a GitHub OAuth token for a Copilot bearer token.
func exchangeToken(httpClient *http.Client, url, githubToken string) (string, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Token "+githubToken)
	req.Header.Set("User-Agent", userAgent)

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("making request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("token exchange failed (status %d): %s", resp.StatusCode, string(body))
	}

	var tokenResp tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if tokenResp.Token == "" {
		return "", fmt.Errorf("token exchange returned an empty token")
	}

	return tokenResp.Token, nil
}

func (c *CopilotClient) Chat(ctx context.Context, messages []Message) (string, error) {
	return c.chat.complete(ctx, messages)
}

func (c *CopilotClient) ChatJSON(ctx context.Context, messages []Message, result any) error {
	return c.chat.completeJSON(ctx, messages, result)
}
