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

type plannerImpl struct {
	caller *caller
	prompt string
	roster string
}

func newPlanner(
	ctx context.Context,
	chatModel einomodel.BaseChatModel,
	prompts promptx.PromptSet,
	roster []contractx.ToolSpec,
	timeout time.Duration,
) (*plannerImpl, error) {
	if strings.TrimSpace(prompts.Plan) == "" {
		return nil, fmt.Errorf("%w: plan prompt", contractx.ErrPromptMissing)
	}
	runner, err := compileChatGraph(ctx, chatModel, "decision.plan_graph")
	if err != nil {
		return nil, fmt.Errorf("%w: compile planner graph: %v", contractx.ErrProvider, err)
	}
	return &plannerImpl{
		caller: &caller{
			name:     "plan",
			runner:   runner,
			timeout:  timeout,
			reminder: prompts.Reminder,
		},
		prompt: prompts.Plan,
		roster: formatRoster(roster),
	}, nil
}

func (p *plannerImpl) Plan(ctx context.Context, req contractx.PlanRequest) (contractx.Plan, error) {
	if strings.TrimSpace(req.UserMessage) == "" {
		return contractx.Plan{}, fmt.Errorf("%w: user message is required", contractx.ErrValidation)
	}

	doc := orEmpty(req.Memory)
	system := promptx.Render(p.prompt, map[string]string{
		promptx.VarProfile:   compactJSON(doc.UserProfile),
		promptx.VarDocuments: compactJSON(recentDocuments(doc)),
		promptx.VarTools:     p.roster,
	})

	var plan contractx.Plan
	err := p.caller.callParsed(ctx, system, req.UserMessage, func(raw string) error {
		parsed, err := parsePlan(raw)
		if err != nil {
			return err
		}
		plan = parsed
		return nil
	})
	if err != nil {
		return contractx.Plan{}, err
	}
	return plan, nil
}
