// Package console drives a line-oriented chat session over any reader and writer.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/memagent/agent/contract"
)

const (
	exitCommand   = "exit"
	maxLineLength = 1 << 20
)

type Handler interface {
	HandleMessage(ctx context.Context, text string) (string, error)
}

type Session struct {
	handler Handler
	in      io.Reader
	out     io.Writer

	prompt      string
	replyPrefix string
}

type Option func(*Session)

// WithPrompt sets the text written before each read and before each reply.
func WithPrompt(prompt, replyPrefix string) Option {
	return func(s *Session) {
		s.prompt = prompt
		s.replyPrefix = replyPrefix
	}
}

func New(handler Handler, in io.Reader, out io.Writer, opts ...Option) *Session {
	s := &Session{
		handler:     handler,
		in:          in,
		out:         out,
		prompt:      "You: ",
		replyPrefix: "Agent: ",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Run reads lines until exit, end of input or ctx cancellation. Turn
// failures are reported to the user and never end the session.
func (s *Session) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		fmt.Fprint(s.out, s.prompt)
		if !scanner.Scan() {
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if strings.EqualFold(line, exitCommand) {
			return nil
		}
		if line == "" {
			continue
		}

		reply, err := s.handler.HandleMessage(ctx, line)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Error().Err(err).Msg("turn failed")
			reply = Describe(err)
		}
		fmt.Fprintf(s.out, "%s%s\n", s.replyPrefix, reply)
	}
}

// Describe turns a turn error into the message shown to the user.
func Describe(err error) string {
	switch {
	case errors.Is(err, contractx.ErrStorageFormat):
		return "The memory file is not valid JSON; fix or remove it to continue."
	case errors.Is(err, contractx.ErrDecisionParse):
		return "Could not determine the next action. Try rephrasing the request."
	case errors.Is(err, contractx.ErrProvider):
		return "The language model is temporarily unavailable. Try again shortly."
	case errors.Is(err, contractx.ErrStepLimit):
		return "Stopped after reaching the step limit without a final answer."
	default:
		return fmt.Sprintf("The request could not be completed: %v", err)
	}
}
