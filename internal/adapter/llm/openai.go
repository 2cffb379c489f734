package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Client is a generic OpenAI-compatible chat completions client.
type Client struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
	client      *http.Client
}

// ChatMessage represents a message in the chat format.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message ChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

var providers = map[string]struct {
	baseURL   string
	keyEnvVar string
}{
	"novita":   {"https://api.novita.ai/v3/openai", "NOVITA_API_KEY"},
	"deepseek": {"https://api.deepseek.com/v1", "DEEPSEEK_API_KEY"},
	"openai":   {"https://api.openai.com/v1", "OPENAI_API_KEY"},
	"local":    {"http://localhost:11434/v1", ""},
}

// NewClient creates a chat client for the named provider. A custom baseURL
// takes precedence over the provider table; apiKeyEnv overrides the
// provider's default key variable.
func NewClient(provider, model, baseURL, apiKeyEnv string, temperature float64, maxTokens int) (*Client, error) {
	p, ok := providers[provider]
	if !ok && baseURL == "" {
		return nil, fmt.Errorf("unknown chat provider: %s (set chat.base_url for custom endpoints)", provider)
	}

	if baseURL == "" {
		baseURL = p.baseURL
	}
	if apiKeyEnv == "" {
		apiKeyEnv = p.keyEnvVar
	}

	var apiKey string
	if apiKeyEnv != "" {
		apiKey = os.Getenv(apiKeyEnv)
		if apiKey == "" {
			return nil, fmt.Errorf("API key not found. Set the %s environment variable", apiKeyEnv)
		}
	}

	if maxTokens <= 0 {
		maxTokens = 500
	}

	return &Client{
		baseURL:     baseURL,
		apiKey:      apiKey,
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
		client:      &http.Client{Timeout: 60 * time.Second},
	}, nil
}

// Chat sends a chat completion request.
func (c *Client) Chat(messages []ChatMessage) (string, error) {
	req := chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}

	jsonData, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequest("POST", c.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("API error: %s", chatResp.Error.Message)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no response from model")
	}

	return chatResp.Choices[0].Message.Content, nil
}

// Generate implements single-turn generation.
func (c *Client) Generate(prompt string) (string, error) {
	return c.Chat([]ChatMessage{{Role: "user", Content: prompt}})
}

// GenerateWithSystem implements generation with a system prompt.
func (c *Client) GenerateWithSystem(systemPrompt, userPrompt string) (string, error) {
	return c.Chat([]ChatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt},
	})
}

func (c *Client) ModelName() string {
	return c.model
}

// MockLLM returns canned responses for tests.
type MockLLM struct {
	Response string
	Err      error
	Prompts  []string
}

func (m *MockLLM) Generate(prompt string) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	return m.Response, m.Err
}

func (m *MockLLM) GenerateWithSystem(systemPrompt, userPrompt string) (string, error) {
	m.Prompts = append(m.Prompts, userPrompt)
	return m.Response, m.Err
}

func (m *MockLLM) ModelName() string {
	return "mock"
}
