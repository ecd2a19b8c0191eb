package contract

import "context"

type DecisionEngine interface {
	Decide(ctx context.Context, req DecisionRequest) (Action, error)
}

type Planner interface {
	Plan(ctx context.Context, req PlanRequest) (Plan, error)
}

type Synthesizer interface {
	Synthesize(ctx context.Context, req SynthesisRequest) (string, error)
}

type Registry interface {
	Decider() DecisionEngine
	Planner() Planner
	Synthesizer() Synthesizer
}

type ToolGateway interface {
	Execute(ctx context.Context, action Action) (ToolResult, error)
	Roster() []ToolSpec
}
