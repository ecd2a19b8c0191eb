package nodes

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/memagent/agent/contract"
)

// ExecutePlan runs steps in order and stops at the first final step.
func ExecutePlan(ctx context.Context, in *GraphState, tools contractx.ToolGateway) (*GraphState, error) {
	if in == nil || in.Memory == nil {
		return nil, fmt.Errorf("%w: graph memory is nil", contractx.ErrValidation)
	}

	for i, step := range in.Plan.Steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		outcome, err := ApplyAction(ctx, in.Memory, step, tools)
		if err != nil {
			return nil, err
		}
		in.Executed = append(in.Executed, step)

		if outcome.Unrecognized {
			in.Unrecognized = append(in.Unrecognized, step.Kind)
			log.Warn().
				Str("turn_id", in.TurnID).
				Int("step", i).
				Str("action", string(step.Kind)).
				Msg("skipping unrecognized plan step")
		}
		if outcome.Final {
			break
		}
	}

	return in, nil
}
