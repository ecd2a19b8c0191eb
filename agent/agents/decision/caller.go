package decision

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/memagent/agent/contract"
)

// caller runs one compiled chat graph under a per-call timeout.
type caller struct {
	name     string
	runner   compose.Runnable[map[string]any, *schema.Message]
	timeout  time.Duration
	reminder string
}

func (c *caller) call(ctx context.Context, system, input string) (string, error) {
	callCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	msg, err := c.runner.Invoke(callCtx, map[string]any{
		varSystem: system,
		varInput:  input,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %s invoke: %v", contractx.ErrProvider, c.name, err)
	}
	if msg == nil {
		return "", nil
	}
	return msg.Content, nil
}

// callParsed retries once with the reminder appended when parse rejects
// the reply. Provider errors are returned without a retry.
func (c *caller) callParsed(ctx context.Context, system, input string, parse func(string) error) error {
	raw, err := c.call(ctx, system, input)
	if err != nil {
		return err
	}
	perr := parse(raw)
	if perr == nil {
		return nil
	}
	if !errors.Is(perr, contractx.ErrDecisionParse) {
		return perr
	}

	log.Warn().
		Err(perr).
		Str("call", c.name).
		Str("reply", truncateRunes(raw, 200)).
		Msg("model reply rejected, retrying with reminder")

	raw, err = c.call(ctx, system, input+"\n\n"+c.reminder)
	if err != nil {
		return err
	}
	return parse(raw)
}
