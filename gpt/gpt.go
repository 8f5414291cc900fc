package gpt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
)

const (
	YandexGPTEndpoint = "https://llm.api.cloud.yandex.net/foundationModels/v1/completion"

	defaultMaxTokens   = 2000
	defaultTemperature = 0.6
	defaultMaxHistory  = 20
)

// Message represents a message in the conversation
type Message struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// CompletionOptions represents the options for the completion
type CompletionOptions struct {
	MaxTokens   int     `json:"maxTokens"`
	Temperature float64 `json:"temperature"`
}

// Request represents the request to the Yandex GPT API
type Request struct {
	ModelURI          string            `json:"modelUri"`
	CompletionOptions CompletionOptions `json:"completionOptions"`
	Messages          []Message         `json:"messages"`
}

// Response represents the response from the Yandex GPT API
type Response struct {
	Result struct {
		Alternatives []struct {
			Message Message `json:"message"`
			Status  string  `json:"status"`
		} `json:"alternatives"`
	} `json:"result"`
}

// Client is a client for the Yandex GPT API carrying a bounded rolling
// conversation history across Complete calls.
type Client struct {
	FolderID   string
	IAMToken   string
	Model      string
	Endpoint   string
	HTTPClient *http.Client

	maxHistory int
	mu         sync.Mutex
	history    []Message
}

// NewClient creates a new Yandex GPT client
func NewClient(folderID, iamToken, model string) *Client {
	if model == "" {
		model = "yandexgpt-lite"
	}
	return &Client{
		FolderID:   folderID,
		IAMToken:   iamToken,
		Model:      model,
		Endpoint:   YandexGPTEndpoint,
		HTTPClient: &http.Client{},
		maxHistory: defaultMaxHistory,
	}
}

// Complete sends the user text together with the system prompt and the
// rolling history, and returns the assistant reply.
func (c *Client) Complete(ctx context.Context, system, text string) (string, error) {
	c.mu.Lock()
	messages := make([]Message, 0, len(c.history)+2)
	if system != "" {
		messages = append(messages, Message{Role: "system", Text: system})
	}
	messages = append(messages, c.history...)
	messages = append(messages, Message{Role: "user", Text: text})
	c.mu.Unlock()

	req := Request{
		ModelURI: fmt.Sprintf("gpt://%s/%s", c.FolderID, c.Model),
		CompletionOptions: CompletionOptions{
			MaxTokens:   defaultMaxTokens,
			Temperature: defaultTemperature,
		},
		Messages: messages,
	}

	response, err := c.send(ctx, req)
	if err != nil {
		return "", err
	}
	if len(response.Result.Alternatives) == 0 {
		return "", fmt.Errorf("API returned no alternatives")
	}
	reply := response.Result.Alternatives[0].Message.Text

	c.mu.Lock()
	c.history = append(c.history,
		Message{Role: "user", Text: text},
		Message{Role: "assistant", Text: reply},
	)
	if len(c.history) > c.maxHistory {
		c.history = c.history[len(c.history)-c.maxHistory:]
	}
	c.mu.Unlock()

	return reply, nil
}

// Reset clears the conversation history.
func (c *Client) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = c.history[:0]
}

func (c *Client) send(ctx context.Context, req Request) (*Response, error) {
	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.IAMToken)
	httpReq.Header.Set("x-folder-id", c.FolderID)

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var response Response
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &response, nil
}
