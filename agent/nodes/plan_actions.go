package nodes

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/memagent/agent/contract"
)

func PlanActions(ctx context.Context, in *GraphState, planner contractx.Planner) (*GraphState, error) {
	if in == nil || in.Memory == nil {
		return nil, fmt.Errorf("%w: graph memory is nil", contractx.ErrValidation)
	}

	plan, err := planner.Plan(ctx, contractx.PlanRequest{
		UserMessage: in.Text,
		Memory:      in.Memory,
	})
	if err != nil {
		return nil, err
	}

	in.Plan = plan
	return in, nil
}
