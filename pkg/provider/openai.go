package provider

import (
	"context"
	"fmt"
	"strings"

	openaimodel "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

var (
	OpenRouterReasoningBlacklist = map[string]bool{
		"x-ai/grok-4.1-fast": true,
	}
)

func newEinoModel(ctx context.Context, c *Config) (model.BaseChatModel, error) {
	modelName := strings.TrimSpace(c.Model)
	maxTokens := c.maxTokens()
	temp := c.Temperature

	conf := &openaimodel.ChatModelConfig{
		BaseURL:     strings.TrimRight(c.BaseURL, "/"),
		APIKey:      strings.TrimSpace(c.APIKey),
		Model:       modelName,
		MaxTokens:   &maxTokens,
		Temperature: &temp,
		Timeout:     c.Timeout,
	}

	if OpenRouterReasoningBlacklist[modelName] {
		conf.ExtraFields = map[string]any{
			"reasoning": map[string]any{
				"exclude": true,
				"effort":  "none",
			},
		}
	}

	m, err := openaimodel.NewChatModel(ctx, conf)
	if err != nil {
		return nil, fmt.Errorf("provider: create chat model: %w", err)
	}

	return m, nil
}

// NewClient creates an OpenAI SDK client for any OpenAI-compatible endpoint.
func NewClient(cfg Config) *openaisdk.Client {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil
	}

	opts := []option.RequestOption{
		option.WithAPIKey(strings.TrimSpace(cfg.APIKey)),
	}

	if trimmed := strings.TrimRight(cfg.BaseURL, "/"); trimmed != "" {
		opts = append(opts, option.WithBaseURL(trimmed))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	// OpenRouter attribution headers
	if cfg.SiteURL != "" {
		opts = append(opts, option.WithHeader("HTTP-Referer", cfg.SiteURL))
	}
	if cfg.SiteName != "" {
		opts = append(opts, option.WithHeader("X-Title", cfg.SiteName))
	}

	client := openaisdk.NewClient(opts...)
	return &client
}

type openAISDKModel struct {
	cfg    Config
	client *openaisdk.Client
}

var _ model.BaseChatModel = (*openAISDKModel)(nil)

func newOpenAISDKModel(c *Config) *openAISDKModel {
	cfg := *c
	client := NewClient(cfg)
	if client == nil {
		// keyless local endpoints still need a client
		opts := []option.RequestOption{option.WithAPIKey("unused")}
		if trimmed := strings.TrimRight(cfg.BaseURL, "/"); trimmed != "" {
			opts = append(opts, option.WithBaseURL(trimmed))
		}
		sdk := openaisdk.NewClient(opts...)
		client = &sdk
	}
	return &openAISDKModel{cfg: cfg, client: client}
}

func (m *openAISDKModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	o := m.cfg.callOptions(opts)

	messages := make([]openaisdk.ChatCompletionMessageParamUnion, 0, len(input))
	for _, msg := range input {
		if msg == nil {
			continue
		}
		switch msg.Role {
		case schema.System:
			messages = append(messages, openaisdk.SystemMessage(msg.Content))
		case schema.Assistant:
			messages = append(messages, openaisdk.AssistantMessage(msg.Content))
		default:
			messages = append(messages, openaisdk.UserMessage(msg.Content))
		}
	}

	params := openaisdk.ChatCompletionNewParams{
		Model:    openaisdk.ChatModel(*o.Model),
		Messages: messages,
	}
	if o.Temperature != nil {
		params.Temperature = openaisdk.Float(float64(*o.Temperature))
	}
	if o.MaxTokens != nil {
		params.MaxCompletionTokens = openaisdk.Int(int64(*o.MaxTokens))
	}

	resp, err := m.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("provider: openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("provider: openai chat completion returned no choices")
	}

	return schema.AssistantMessage(resp.Choices[0].Message.Content, nil), nil
}

func (m *openAISDKModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}
