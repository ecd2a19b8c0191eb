package decision

import (
	"context"
	"fmt"
	"strings"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	contractx "github.com/tanpawarit/memagent/agent/contract"
	promptx "github.com/tanpawarit/memagent/agent/prompt"
)

type synthesizerImpl struct {
	caller *caller
	prompt string
}

func newSynthesizer(
	ctx context.Context,
	chatModel einomodel.BaseChatModel,
	prompts promptx.PromptSet,
	timeout time.Duration,
) (*synthesizerImpl, error) {
	if strings.TrimSpace(prompts.Synthesize) == "" {
		return nil, fmt.Errorf("%w: synthesize prompt", contractx.ErrPromptMissing)
	}
	runner, err := compileChatGraph(ctx, chatModel, "decision.synthesize_graph")
	if err != nil {
		return nil, fmt.Errorf("%w: compile synthesizer graph: %v", contractx.ErrProvider, err)
	}
	return &synthesizerImpl{
		caller: &caller{name: "synthesize", runner: runner, timeout: timeout},
		prompt: prompts.Synthesize,
	}, nil
}

// Synthesize returns the model's answer text verbatim, trimmed.
func (s *synthesizerImpl) Synthesize(ctx context.Context, req contractx.SynthesisRequest) (string, error) {
	if strings.TrimSpace(req.UserMessage) == "" {
		return "", fmt.Errorf("%w: user message is required", contractx.ErrValidation)
	}

	doc := orEmpty(req.Memory)
	system := promptx.Render(s.prompt, map[string]string{
		promptx.VarProfile:     compactJSON(doc.UserProfile),
		promptx.VarToolOutputs: compactJSON(doc.ToolOutputs),
		promptx.VarDocuments:   compactJSON(recentDocuments(doc)),
	})

	raw, err := s.caller.call(ctx, system, req.UserMessage)
	if err != nil {
		return "", err
	}
	answer := strings.TrimSpace(raw)
	if answer == "" {
		return "", fmt.Errorf("%w: synthesizer returned an empty answer", contractx.ErrDecisionParse)
	}
	return answer, nil
}
