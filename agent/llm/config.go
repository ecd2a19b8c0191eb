package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/memagent/agent/contract"
	providerx "github.com/tanpawarit/memagent/pkg/provider"
)

type Config struct {
	Transport          string        `envconfig:"TRANSPORT" split_words:"true" default:"eino"`
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://api.groq.com/openai/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" default:"llama-3.3-70b-versatile"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"1024"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
	SiteURL            string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName           string        `envconfig:"SITE_NAME" split_words:"true"`

	DecisionModel          string  `envconfig:"DECISION_MODEL" split_words:"true"`
	PlannerModel           string  `envconfig:"PLANNER_MODEL" split_words:"true"`
	SynthesizerModel       string  `envconfig:"SYNTHESIZER_MODEL" split_words:"true"`
	DecisionTemperature    float32 `envconfig:"DECISION_TEMPERATURE" split_words:"true" default:"-1"`
	PlannerTemperature     float32 `envconfig:"PLANNER_TEMPERATURE" split_words:"true" default:"-1"`
	SynthesizerTemperature float32 `envconfig:"SYNTHESIZER_TEMPERATURE" split_words:"true" default:"-1"`
}

func (c Config) Validate() error {
	transport, err := providerx.ParseTransport(c.Transport)
	if err != nil {
		return fmt.Errorf("%w: %v", contractx.ErrValidation, err)
	}
	// The Anthropic SDK falls back to ANTHROPIC_API_KEY.
	if transport != providerx.TransportAnthropic && strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: llm api key is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: default model is required", contractx.ErrValidation)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: llm timeout must be positive", contractx.ErrValidation)
	}
	return nil
}

// ProviderFor resolves the model settings used for role.
func (c Config) ProviderFor(role contractx.Role) providerx.Config {
	modelName := strings.TrimSpace(c.Model)
	temp := c.Temperature

	override := func(m string, t float32) {
		if v := strings.TrimSpace(m); v != "" {
			modelName = v
		}
		if t >= 0 {
			temp = t
		}
	}

	switch role {
	case contractx.RoleDecision:
		override(c.DecisionModel, c.DecisionTemperature)
	case contractx.RolePlanner:
		override(c.PlannerModel, c.PlannerTemperature)
	case contractx.RoleSynthesizer:
		override(c.SynthesizerModel, c.SynthesizerTemperature)
	}

	transport, _ := providerx.ParseTransport(c.Transport)
	maxCompletionToken := c.MaxCompletionToken
	return providerx.Config{
		Transport:          transport,
		BaseURL:            strings.TrimSpace(c.BaseURL),
		APIKey:             strings.TrimSpace(c.APIKey),
		Model:              modelName,
		MaxCompletionToken: &maxCompletionToken,
		Temperature:        temp,
		Timeout:            c.Timeout,
		SiteURL:            strings.TrimSpace(c.SiteURL),
		SiteName:           strings.TrimSpace(c.SiteName),
	}
}
