package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sandevgo/pennybot/internal/config"
	"github.com/sandevgo/pennybot/internal/core"
)

// Fireworks talks to the Fireworks AI inference API, which is
// OpenAI-compatible: POST {model, messages} to /v1/chat/completions and read
// choices[0].message back. One attempt per call, no retries.
type Fireworks struct {
	baseProvider
}

var (
	_ core.AIProvider = (*Fireworks)(nil)
	_ core.Completer  = (*Fireworks)(nil)
)

func NewFireworks(cfg *config.FireworksConfig) *Fireworks {
	return &Fireworks{
		baseProvider: newBaseProvider(cfg.BaseURL, cfg.APIKey, cfg.Model),
	}
}

func (f *Fireworks) Chat(ctx context.Context, messages []core.Message) (core.Message, error) {
	payload := map[string]any{
		"model":    f.model,
		"messages": messages,
	}

	headers := map[string]string{
		"Authorization": "Bearer " + f.apiKey,
	}

	resp, err := f.doRequest(ctx, http.MethodPost, "/v1/chat/completions", payload, headers)
	if err != nil {
		return core.Message{}, err
	}
	defer resp.Body.Close()

	return parseChatResponse(resp)
}

// Complete runs one round trip composed of a system prompt, prior context and
// the current user prompt, returning the assistant text trimmed.
func (f *Fireworks) Complete(ctx context.Context, system string, contextMsgs []core.Message, user string) (string, error) {
	messages := make([]core.Message, 0, len(contextMsgs)+2)
	messages = append(messages, core.Message{Role: core.RoleSystem, Content: system})
	messages = append(messages, contextMsgs...)
	messages = append(messages, core.Message{Role: core.RoleUser, Content: user})

	msg, err := f.Chat(ctx, messages)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(msg.Content), nil
}

func parseChatResponse(resp *http.Response) (core.Message, error) {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return core.Message{}, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return core.Message{}, fmt.Errorf("http %d: %s", resp.StatusCode, string(data))
	}

	var result struct {
		Choices []struct {
			Message core.Message `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return core.Message{}, fmt.Errorf("decode: %w", err)
	}
	if len(result.Choices) == 0 {
		return core.Message{}, fmt.Errorf("empty choices: %s", string(data))
	}
	return result.Choices[0].Message, nil
}
