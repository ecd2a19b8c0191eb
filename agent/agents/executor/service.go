package executor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/oklog/ulid/v2"
	contractx "github.com/tanpawarit/memagent/agent/contract"
	nodex "github.com/tanpawarit/memagent/agent/nodes"
	statex "github.com/tanpawarit/memagent/agent/state"
)

const defaultMaxSteps = 8

var ErrInvalidMessage = nodex.ErrInvalidMessage

type Config struct {
	Mode     contractx.Mode
	MaxSteps int
}

// Executor runs one conversation turn at a time against a single memory store.
type Executor struct {
	store  statex.Store
	models contractx.Registry
	tools  contractx.ToolGateway

	mode     contractx.Mode
	maxSteps int

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	now       func() time.Time
	newTurnID func() string
}

func New(
	store statex.Store,
	models contractx.Registry,
	tools contractx.ToolGateway,
	cfg Config,
) (*Executor, error) {
	if store == nil {
		return nil, errors.New("memory store is required")
	}
	if models == nil {
		return nil, errors.New("model registry is required")
	}
	if tools == nil {
		return nil, errors.New("tool gateway is required")
	}

	mode, err := ParseMode(string(cfg.Mode))
	if err != nil {
		return nil, err
	}
	maxSteps := cfg.MaxSteps
	if maxSteps <= 0 {
		maxSteps = defaultMaxSteps
	}

	e := &Executor{
		store:     store,
		models:    models,
		tools:     tools,
		mode:      mode,
		maxSteps:  maxSteps,
		now:       time.Now,
		newTurnID: func() string { return ulid.Make().String() },
	}

	if mode == contractx.ModePlanning {
		graphRunner, err := e.compilePlanningGraph(context.Background())
		if err != nil {
			return nil, err
		}
		e.graphRunner = graphRunner
	}

	return e, nil
}

func ParseMode(s string) (contractx.Mode, error) {
	switch m := contractx.Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "", contractx.ModePlanning:
		return contractx.ModePlanning, nil
	case contractx.ModeReactive:
		return m, nil
	default:
		return "", fmt.Errorf("%w: unknown mode %q", contractx.ErrValidation, s)
	}
}

func (e *Executor) Mode() contractx.Mode {
	return e.mode
}

// HandleMessage runs one turn and returns the reply for the user.
func (e *Executor) HandleMessage(ctx context.Context, text string) (string, error) {
	turnID := e.newTurnID()
	if e.mode == contractx.ModeReactive {
		return e.runReactive(ctx, turnID, text)
	}

	out, err := e.graphRunner.Invoke(ctx, nodex.GraphInput{
		TurnID: turnID,
		Text:   text,
	})
	if err != nil {
		return "", err
	}
	return out.Reply, nil
}
