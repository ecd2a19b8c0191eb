package nodes

import (
	"context"
	"errors"
	"fmt"

	contractx "github.com/tanpawarit/memagent/agent/contract"
	statex "github.com/tanpawarit/memagent/agent/state"
)

// StepOutcome reports what applying one action did to the document.
type StepOutcome struct {
	Final        bool
	Answer       string
	Result       *contractx.ToolResult
	Unrecognized bool
}

// ApplyAction folds one action into doc. Unrecognized actions leave a
// diagnostic in tool_outputs instead of failing the turn.
func ApplyAction(
	ctx context.Context,
	doc *statex.Document,
	action contractx.Action,
	tools contractx.ToolGateway,
) (StepOutcome, error) {
	if doc == nil {
		return StepOutcome{}, fmt.Errorf("%w: memory document is nil", contractx.ErrValidation)
	}

	switch action.Kind {
	case contractx.ActionFinal:
		return StepOutcome{Final: true, Answer: action.Input}, nil
	case contractx.ActionRemember:
		doc.Remember(action.Key, action.Value)
		return StepOutcome{}, nil
	}

	result, err := tools.Execute(ctx, action)
	if errors.Is(err, contractx.ErrUnrecognizedAction) {
		doc.SetToolOutput(statex.SlotUnrecognizedAction, unrecognizedNote(action.Kind))
		return StepOutcome{Unrecognized: true}, nil
	}
	if err != nil {
		return StepOutcome{}, fmt.Errorf("%w: %s: %v", contractx.ErrToolExecution, action.Kind, err)
	}

	doc.SetToolOutput(result.Slot, result.Output)
	if result.Record != nil {
		doc.AppendRecord(result.Record.Source, result.Record.Text)
	}
	return StepOutcome{Result: &result}, nil
}

func unrecognizedNote(kind contractx.ActionKind) string {
	return fmt.Sprintf("Action %q is not available and was skipped.", kind)
}
