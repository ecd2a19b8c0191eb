package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/memagent/agent/contract"
	nodex "github.com/tanpawarit/memagent/agent/nodes"
	statex "github.com/tanpawarit/memagent/agent/state"
)

// runReactive asks for one action per call until the model answers or the
// step budget runs out. Memory is saved after every step.
func (e *Executor) runReactive(ctx context.Context, turnID, text string) (string, error) {
	question := strings.TrimSpace(text)
	if question == "" {
		return "", ErrInvalidMessage
	}

	doc, err := nodex.StartTurn(ctx, e.store, question)
	if err != nil {
		return "", err
	}

	decider := e.models.Decider()
	prompt := question
	for step := 1; step <= e.maxSteps; step++ {
		action, err := decider.Decide(ctx, contractx.DecisionRequest{
			Context: prompt,
			Memory:  doc,
		})
		if err != nil {
			return "", err
		}

		log.Debug().
			Str("turn_id", turnID).
			Int("step", step).
			Str("action", string(action.Kind)).
			Msg("decision")

		outcome, err := nodex.ApplyAction(ctx, doc, action, e.tools)
		if err != nil {
			return "", err
		}
		if outcome.Unrecognized {
			log.Warn().
				Str("turn_id", turnID).
				Str("action", string(action.Kind)).
				Msg("skipping unrecognized action")
		}

		if err := e.store.Save(ctx, doc); err != nil {
			return "", err
		}
		if outcome.Final {
			return outcome.Answer, nil
		}

		prompt = recapContext(question, doc)
	}

	return "", fmt.Errorf("%w: %d steps", contractx.ErrStepLimit, e.maxSteps)
}

func recapContext(question string, doc *statex.Document) string {
	var sb strings.Builder
	sb.WriteString("Original question:\n")
	sb.WriteString(question)
	sb.WriteString("\n\nThings remembered about the user so far:\n")
	sb.WriteString(compactJSON(doc.UserProfile))
	sb.WriteString("\n\nTool results so far:\n")
	sb.WriteString(compactJSON(doc.ToolOutputs))
	return sb.String()
}

func compactJSON(m map[string]string) string {
	if len(m) == 0 {
		return "{}"
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "{}"
	}
	return string(b)
}
