// Package openai is the language model and speech synthesis client. One
// go-openai client is built on first use and shared by every request.
package openai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	goopenai "github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"

	"github.com/bitmark-inc/medassist-api/consts"
	"github.com/bitmark-inc/medassist-api/external"
	"github.com/bitmark-inc/medassist-api/external/upstream"
)

const (
	logPrefix = "openai"

	// APIKeySetting is the setting named in configuration errors.
	APIKeySetting = "OPENAI_API_KEY"

	defaultChatModel   = "gpt-4o-mini"
	defaultSpeechModel = goopenai.TTSModel1
)

// ErrEmptyCompletion is returned when the model answers with no choices.
var ErrEmptyCompletion = errors.New("model returned no completion")

// Config holds the settings of the OpenAI client.
type Config struct {
	APIKey      string
	BaseURL     string
	ChatModel   string
	SpeechModel string
	Temperature float32
	Timeout     time.Duration
}

// Client calls the OpenAI chat completion and speech APIs.
type Client struct {
	config Config

	once   sync.Once
	client *goopenai.Client
	err    error
}

// New returns a Client. Nothing is validated until the first call.
func New(config Config) *Client {
	if config.ChatModel == "" {
		config.ChatModel = defaultChatModel
	}
	if config.SpeechModel == "" {
		config.SpeechModel = string(defaultSpeechModel)
	}
	if config.Timeout == 0 {
		config.Timeout = consts.LLMTimeout
	}
	return &Client{config: config}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.config.APIKey != ""
}

// ChatModel returns the model used for completions.
func (c *Client) ChatModel() string {
	return c.config.ChatModel
}

// acquire returns the shared go-openai client, building it on first use.
func (c *Client) acquire() (*goopenai.Client, error) {
	c.once.Do(func() {
		if c.config.APIKey == "" {
			c.err = &external.MissingSettingError{Setting: APIKeySetting}
			log.WithFields(log.Fields{
				"prefix": logPrefix,
				"error":  c.err,
			}).Error("init openai client")
			return
		}

		cfg := goopenai.DefaultConfig(c.config.APIKey)
		if c.config.BaseURL != "" {
			cfg.BaseURL = c.config.BaseURL
		}
		cfg.HTTPClient = upstream.NewClient("openai", c.config.Timeout)
		c.client = goopenai.NewClientWithConfig(cfg)
	})
	return c.client, c.err
}

// CompleteJSON sends a system and a user prompt and returns the raw text of
// the first choice. The model is asked for a JSON object.
func (c *Client) CompleteJSON(ctx context.Context, system, user string) (string, error) {
	client, err := c.acquire()
	if err != nil {
		return "", err
	}

	resp, err := client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: c.config.ChatModel,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: system},
			{Role: goopenai.ChatMessageRoleUser, Content: user},
		},
		Temperature: c.config.Temperature,
		ResponseFormat: &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		log.WithFields(log.Fields{
			"prefix": logPrefix,
			"model":  c.config.ChatModel,
			"error":  err,
		}).Error("chat completion")
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}

// Speech synthesizes text with the given voice and returns MP3 bytes.
func (c *Client) Speech(ctx context.Context, text, voice string) ([]byte, error) {
	client, err := c.acquire()
	if err != nil {
		return nil, err
	}

	resp, err := client.CreateSpeech(ctx, goopenai.CreateSpeechRequest{
		Model:          goopenai.SpeechModel(c.config.SpeechModel),
		Input:          text,
		Voice:          goopenai.SpeechVoice(voice),
		ResponseFormat: goopenai.SpeechResponseFormatMp3,
	})
	if err != nil {
		log.WithFields(log.Fields{
			"prefix": logPrefix,
			"voice":  voice,
			"error":  err,
		}).Error("create speech")
		return nil, err
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("read speech: %w", err)
	}
	return audio, nil
}
