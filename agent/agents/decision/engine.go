package decision

import (
	"context"
	"fmt"
	"strings"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	contractx "github.com/tanpawarit/memagent/agent/contract"
	promptx "github.com/tanpawarit/memagent/agent/prompt"
)

type engineImpl struct {
	caller *caller
	prompt string
	roster string
}

func newDecisionEngine(
	ctx context.Context,
	chatModel einomodel.BaseChatModel,
	prompts promptx.PromptSet,
	roster []contractx.ToolSpec,
	timeout time.Duration,
) (*engineImpl, error) {
	if strings.TrimSpace(prompts.Decide) == "" {
		return nil, fmt.Errorf("%w: decide prompt", contractx.ErrPromptMissing)
	}
	runner, err := compileChatGraph(ctx, chatModel, "decision.decide_graph")
	if err != nil {
		return nil, fmt.Errorf("%w: compile decision graph: %v", contractx.ErrProvider, err)
	}
	return &engineImpl{
		caller: &caller{
			name:     "decide",
			runner:   runner,
			timeout:  timeout,
			reminder: prompts.Reminder,
		},
		prompt: prompts.Decide,
		roster: formatRoster(roster),
	}, nil
}

// Decide asks for the single next action given the re-prompt context.
func (e *engineImpl) Decide(ctx context.Context, req contractx.DecisionRequest) (contractx.Action, error) {
	if strings.TrimSpace(req.Context) == "" {
		return contractx.Action{}, fmt.Errorf("%w: decision context is required", contractx.ErrValidation)
	}

	system := promptx.Render(e.prompt, map[string]string{
		promptx.VarState: stateSnapshot(req.Memory),
		promptx.VarTools: e.roster,
	})

	var action contractx.Action
	err := e.caller.callParsed(ctx, system, req.Context, func(raw string) error {
		a, err := parseAction(raw)
		if err != nil {
			return err
		}
		action = a
		return nil
	})
	if err != nil {
		return contractx.Action{}, err
	}
	return action, nil
}
