package nodes

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/memagent/agent/contract"
	statex "github.com/tanpawarit/memagent/agent/state"
)

func SaveMemory(ctx context.Context, in *GraphState, store statex.Store) (*GraphState, error) {
	if in == nil || in.Memory == nil {
		return nil, fmt.Errorf("%w: graph memory is nil", contractx.ErrValidation)
	}

	if err := store.Save(ctx, in.Memory); err != nil {
		return nil, err
	}
	return in, nil
}
