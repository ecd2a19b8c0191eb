// Package provider builds eino chat models over the supported LLM transports.
package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
)

type Transport string

const (
	// TransportEino uses the eino-ext OpenAI-compatible model.
	TransportEino Transport = "eino"
	// TransportOpenAISDK calls an OpenAI-compatible endpoint through openai-go.
	TransportOpenAISDK Transport = "openai-sdk"
	// TransportAnthropic calls the Anthropic Messages API.
	TransportAnthropic Transport = "anthropic"
)

const defaultMaxTokens = 2000

type LLMBuilder interface {
	New(ctx context.Context) (model.BaseChatModel, error)
}

var _ LLMBuilder = (*Config)(nil)

type Config struct {
	Transport          Transport
	BaseURL            string
	APIKey             string
	Model              string
	MaxCompletionToken *int
	Temperature        float32
	Timeout            time.Duration
	SiteURL            string
	SiteName           string
}

func ParseTransport(s string) (Transport, error) {
	switch t := Transport(strings.ToLower(strings.TrimSpace(s))); t {
	case "", TransportEino:
		return TransportEino, nil
	case TransportOpenAISDK, TransportAnthropic:
		return t, nil
	default:
		return "", fmt.Errorf("unknown llm transport %q", s)
	}
}

func (c *Config) New(ctx context.Context) (model.BaseChatModel, error) {
	if strings.TrimSpace(c.Model) == "" {
		return nil, fmt.Errorf("provider: model name is required")
	}

	transport, err := ParseTransport(string(c.Transport))
	if err != nil {
		return nil, err
	}

	switch transport {
	case TransportOpenAISDK:
		return newOpenAISDKModel(c), nil
	case TransportAnthropic:
		return newAnthropicModel(c), nil
	default:
		return newEinoModel(ctx, c)
	}
}

func (c *Config) maxTokens() int {
	if c.MaxCompletionToken != nil && *c.MaxCompletionToken > 0 {
		return *c.MaxCompletionToken
	}
	return defaultMaxTokens
}

// callOptions merges per-call eino options over the configured defaults.
func (c *Config) callOptions(opts []model.Option) *model.Options {
	temp := c.Temperature
	maxTokens := c.maxTokens()
	name := strings.TrimSpace(c.Model)
	return model.GetCommonOptions(&model.Options{
		Temperature: &temp,
		MaxTokens:   &maxTokens,
		Model:       &name,
	}, opts...)
}
