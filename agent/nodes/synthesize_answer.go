package nodes

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/memagent/agent/contract"
)

func SynthesizeAnswer(ctx context.Context, in *GraphState, synthesizer contractx.Synthesizer) (*GraphState, error) {
	if in == nil || in.Memory == nil {
		return nil, fmt.Errorf("%w: graph memory is nil", contractx.ErrValidation)
	}

	answer, err := synthesizer.Synthesize(ctx, contractx.SynthesisRequest{
		UserMessage: in.Text,
		Memory:      in.Memory,
	})
	if err != nil {
		return nil, err
	}
	in.Reply = answer
	return in, nil
}
