// Package assistant wraps the slice of the OpenAI Assistants API this server
// consumes: threads, messages and the asynchronous run lifecycle.
package assistant

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
)

// Config carries the provider credentials and run settings.
type Config struct {
	APIKey      string
	AssistantID string
	// Model optionally overrides the assistant's configured model per run.
	Model   string
	BaseURL string
	Poll    PollConfig
}

// Client talks to the Assistants API on behalf of the gateway.
type Client struct {
	api         *openai.Client
	assistantID string
	model       string
	poll        PollConfig
	log         zerolog.Logger
}

// New builds a provider client from configuration.
func New(cfg Config, log zerolog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("provider api key is required")
	}
	if cfg.AssistantID == "" {
		return nil, errors.New("assistant id is required")
	}

	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}

	return &Client{
		api:         openai.NewClientWithConfig(apiCfg),
		assistantID: cfg.AssistantID,
		model:       cfg.Model,
		poll:        cfg.Poll,
		log:         log,
	}, nil
}

// CreateThread opens a fresh conversation thread with no prior messages.
func (c *Client) CreateThread(ctx context.Context) (string, error) {
	thread, err := c.api.CreateThread(ctx, openai.ThreadRequest{})
	if err != nil {
		return "", fmt.Errorf("create thread: %w", err)
	}
	c.log.Debug().Str("thread", thread.ID).Msg("thread created")
	return thread.ID, nil
}

// AddUserMessage appends a user-role message to the thread.
func (c *Client) AddUserMessage(ctx context.Context, threadID, content string) error {
	_, err := c.api.CreateMessage(ctx, threadID, openai.MessageRequest{
		Role:    openai.ChatMessageRoleUser,
		Content: content,
	})
	if err != nil {
		return fmt.Errorf("append message to thread %s: %w", threadID, err)
	}
	return nil
}

// StartRun kicks off a new assistant run against the thread's accumulated
// messages and returns immediately; callers poll it with WaitForRun.
func (c *Client) StartRun(ctx context.Context, threadID string) (openai.Run, error) {
	run, err := c.api.CreateRun(ctx, threadID, openai.RunRequest{
		AssistantID: c.assistantID,
		Model:       c.model,
	})
	if err != nil {
		return openai.Run{}, fmt.Errorf("start run on thread %s: %w", threadID, err)
	}
	c.log.Debug().Str("thread", threadID).Str("run", run.ID).Msg("run started")
	return run, nil
}

// messagePageSize is the largest list page the provider serves.
const messagePageSize = 100

// FirstAssistantMessage returns the oldest assistant message on the thread,
// used for the opening narration of a new session. ok is false when the
// thread holds no assistant message.
func (c *Client) FirstAssistantMessage(ctx context.Context, threadID string) (string, bool, error) {
	return c.scanAssistantMessage(ctx, threadID, "asc")
}

// LastAssistantMessage returns the newest assistant message on the thread,
// used as the reply to a submitted turn.
func (c *Client) LastAssistantMessage(ctx context.Context, threadID string) (string, bool, error) {
	return c.scanAssistantMessage(ctx, threadID, "desc")
}

// scanAssistantMessage walks the thread's message pages in the given
// creation order and returns the first assistant-role message it meets:
// ascending yields the oldest, descending the newest. Paging keeps the
// selection correct however long the thread has grown.
func (c *Client) scanAssistantMessage(ctx context.Context, threadID, order string) (string, bool, error) {
	limit := messagePageSize
	var after *string
	for {
		list, err := c.api.ListMessage(ctx, threadID, &limit, &order, after, nil, nil)
		if err != nil {
			return "", false, fmt.Errorf("list messages of thread %s: %w", threadID, err)
		}

		for _, msg := range list.Messages {
			if msg.Role == openai.ChatMessageRoleAssistant {
				return messageText(msg), true, nil
			}
		}

		if !list.HasMore || list.LastID == nil {
			return "", false, nil
		}
		after = list.LastID
	}
}

// messageText extracts the first text block of an assistant message.
func messageText(msg openai.Message) string {
	for _, part := range msg.Content {
		if part.Text != nil {
			return part.Text.Value
		}
	}
	return ""
}
