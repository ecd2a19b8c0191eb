package nodes

import (
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/memagent/agent/contract"
)

func FinalizeReply(in *GraphState) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	reply := strings.TrimSpace(in.Reply)
	if reply == "" {
		return GraphOutput{}, fmt.Errorf("%w: synthesizer returned empty answer", contractx.ErrDecisionParse)
	}
	return GraphOutput{Reply: reply}, nil
}
