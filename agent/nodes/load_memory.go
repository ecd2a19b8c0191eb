package nodes

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/memagent/agent/contract"
	statex "github.com/tanpawarit/memagent/agent/state"
)

// LoadMemory reads the stored document and clears last turn's tool outputs.
func LoadMemory(ctx context.Context, in *GraphState, store statex.Store) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	doc, err := loadTurnMemory(ctx, store)
	if err != nil {
		return nil, err
	}
	in.Memory = doc
	return in, nil
}

func loadTurnMemory(ctx context.Context, store statex.Store) (*statex.Document, error) {
	doc, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		doc = statex.NewDocument()
	}
	doc.EnsureDefaults()
	doc.ResetToolOutputs()
	return doc, nil
}

// StartTurn loads memory for a reactive turn and records the raw utterance.
func StartTurn(ctx context.Context, store statex.Store, text string) (*statex.Document, error) {
	doc, err := loadTurnMemory(ctx, store)
	if err != nil {
		return nil, err
	}
	doc.UserInput = text
	return doc, nil
}
