// Package coach proxies health-coach conversations to an OpenAI-compatible
// chat completion API.
package coach

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

var (
	ErrNotConfigured = errors.New("chat coach is not configured")
	ErrInvalidInput  = errors.New("invalid chat request")
	ErrUpstream      = errors.New("chat provider error")
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"

	maxMessages = 40
)

const systemPrompt = `You are a friendly heart-health coach on a wellness website. ` +
	`Give practical, encouraging advice about diet, exercise, sleep, stress and heart health. ` +
	`You are not a doctor: do not diagnose, and tell the user to seek emergency care for chest pain, ` +
	`fainting or severe breathlessness. Keep answers short.`

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

type completionResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Client talks to the chat completion endpoint.
type Client struct {
	httpClient *resty.Client
	model      string
	enabled    bool
	logger     *zap.Logger
}

func NewClient(baseURL, apiKey, model string, timeout time.Duration, logger *zap.Logger) *Client {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		httpClient: client,
		model:      model,
		enabled:    apiKey != "",
		logger:     logger,
	}
}

// Enabled reports whether an API key was configured.
func (c *Client) Enabled() bool {
	return c.enabled
}

// Validate checks a conversation supplied by a browser. Only user and
// assistant turns are accepted; the system prompt is always ours.
func Validate(messages []Message) error {
	if len(messages) == 0 {
		return fmt.Errorf("%w: messages are required", ErrInvalidInput)
	}
	if len(messages) > maxMessages {
		return fmt.Errorf("%w: at most %d messages", ErrInvalidInput, maxMessages)
	}
	for i, m := range messages {
		if m.Role != RoleUser && m.Role != RoleAssistant {
			return fmt.Errorf("%w: message %d has role %q", ErrInvalidInput, i, m.Role)
		}
		if strings.TrimSpace(m.Content) == "" {
			return fmt.Errorf("%w: message %d is empty", ErrInvalidInput, i)
		}
	}
	return nil
}

// Complete sends the conversation and returns the assistant's reply.
func (c *Client) Complete(ctx context.Context, messages []Message) (Message, error) {
	if !c.enabled {
		return Message{}, ErrNotConfigured
	}
	if err := Validate(messages); err != nil {
		return Message{}, err
	}

	req := completionRequest{
		Model:    c.model,
		Messages: append([]Message{{Role: RoleSystem, Content: systemPrompt}}, messages...),
	}

	var (
		result  completionResponse
		errBody errorResponse
	)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&result).
		SetError(&errBody).
		Post("/chat/completions")
	if err != nil {
		c.logger.Error("chat completion call failed", zap.Error(err))
		return Message{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if resp.IsError() {
		c.logger.Error("chat completion rejected",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("msg", errBody.Error.Message),
		)
		return Message{}, fmt.Errorf("%w: %s", ErrUpstream, resp.Status())
	}
	if len(result.Choices) == 0 {
		return Message{}, fmt.Errorf("%w: empty completion", ErrUpstream)
	}

	reply := result.Choices[0].Message
	if reply.Role == "" {
		reply.Role = RoleAssistant
	}
	c.logger.Debug("chat completion ok",
		zap.Int("turns", len(messages)),
		zap.Int("reply_chars", len(reply.Content)),
	)
	return reply, nil
}
