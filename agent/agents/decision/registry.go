package decision

import (
	"context"
	"fmt"

	einomodel "github.com/cloudwego/eino/components/model"
	contractx "github.com/tanpawarit/memagent/agent/contract"
	llmx "github.com/tanpawarit/memagent/agent/llm"
	promptx "github.com/tanpawarit/memagent/agent/prompt"
)

type registryImpl struct {
	decider     contractx.DecisionEngine
	planner     contractx.Planner
	synthesizer contractx.Synthesizer
}

func (r *registryImpl) Decider() contractx.DecisionEngine {
	return r.decider
}

func (r *registryImpl) Planner() contractx.Planner {
	return r.planner
}

func (r *registryImpl) Synthesizer() contractx.Synthesizer {
	return r.synthesizer
}

// NewRegistry builds one chat model per role from cfg.
func NewRegistry(ctx context.Context, cfg llmx.Config, roster []contractx.ToolSpec) (contractx.Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	models := make(map[contractx.Role]einomodel.BaseChatModel, 3)
	for _, role := range []contractx.Role{contractx.RoleDecision, contractx.RolePlanner, contractx.RoleSynthesizer} {
		modelCfg := cfg.ProviderFor(role)
		m, err := modelCfg.New(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: create %s model: %v", contractx.ErrProvider, role, err)
		}
		models[role] = m
	}

	return newRegistryWithModels(ctx, models, roster, cfg)
}

func newRegistryWithModels(
	ctx context.Context,
	models map[contractx.Role]einomodel.BaseChatModel,
	roster []contractx.ToolSpec,
	cfg llmx.Config,
) (*registryImpl, error) {
	prompts := promptx.LoadPromptSet()

	decider, err := newDecisionEngine(ctx, models[contractx.RoleDecision], prompts, roster, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	planner, err := newPlanner(ctx, models[contractx.RolePlanner], prompts, roster, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	synthesizer, err := newSynthesizer(ctx, models[contractx.RoleSynthesizer], prompts, cfg.Timeout)
	if err != nil {
		return nil, err
	}

	return &registryImpl{
		decider:     decider,
		planner:     planner,
		synthesizer: synthesizer,
	}, nil
}
