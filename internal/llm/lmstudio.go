package llm

import (
	"context"
	"os"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/javiermolinar/trainerdesk/internal/config"
)

// lmStudioKeyEnv lists where an API key is looked up. LM Studio ignores the
// key unless authentication is switched on, so a placeholder is sent.
var lmStudioKeyEnv = []string{"LMSTUDIO_API_KEY", "OPENAI_API_KEY"}

// LMStudioClient uses LM Studio's OpenAI-compatible server.
type LMStudioClient struct {
	chat    openAIChat
	baseURL string
}

// newLMStudioClient expects a config already passed through Resolve.
func newLMStudioClient(cfg config.LLMConfig) *LMStudioClient {
	key := "lm-studio"
	for _, name := range lmStudioKeyEnv {
		if v := os.Getenv(name); v != "" {
			key = v
			break
		}
	}
	client := openai.NewClient(option.WithBaseURL(cfg.BaseURL), option.WithAPIKey(key))
	return &LMStudioClient{
		chat:    openAIChat{client: client, model: cfg.Model, label: "lm studio"},
		baseURL: cfg.BaseURL,
	}
}

func (c *LMStudioClient) Chat(ctx context.Context, messages []Message) (string, error) {
	return c.chat.complete(ctx, messages)
}

func (c *LMStudioClient) ChatJSON(ctx context.Context, messages []Message, result any) error {
	return c.chat.completeJSON(ctx, messages, result)
}
