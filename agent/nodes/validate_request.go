package nodes

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/memagent/agent/contract"
	statex "github.com/tanpawarit/memagent/agent/state"
)

var ErrInvalidMessage = fmt.Errorf("%w: message is empty", contractx.ErrValidation)

type GraphInput struct {
	TurnID string
	Text   string
}

type GraphOutput struct {
	Reply string
}

// GraphState carries one planning turn through the graph.
type GraphState struct {
	TurnID string
	Text   string
	Now    time.Time

	Memory *statex.Document
	Plan   contractx.Plan

	Executed     []contractx.Action
	Unrecognized []contractx.ActionKind

	Reply string
}

func ValidateRequest(in GraphInput, nowFn func() time.Time) (*GraphState, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, ErrInvalidMessage
	}

	return &GraphState{
		TurnID: strings.TrimSpace(in.TurnID),
		Text:   text,
		Now:    nowFn().UTC(),
	}, nil
}
