package tool

import (
	"context"
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/memagent/agent/contract"
	statex "github.com/tanpawarit/memagent/agent/state"
)

const defaultOCRTimeout = 30 * time.Second

var (
	specCurrentTime = contractx.ToolSpec{
		Name:    contractx.ActionGetCurrentTime,
		Usage:   "Use when the user asks for the current time or date. Never invent a time.",
		Example: `{"action": "get_current_time"}`,
	}
	specCalculate = contractx.ToolSpec{
		Name:     contractx.ActionCalculate,
		Usage:    "Use when the user asks to calculate or compute something.",
		Argument: `input: arithmetic expression using numbers and + - * / % ( ) ^, e.g. "2 + 3 * 4"`,
		Example:  `{"action": "calculate", "input": "2 + 3 * 4"}`,
	}
	specOCR = contractx.ToolSpec{
		Name:     contractx.ActionOCRExtractText,
		Usage:    "Use when the user asks to read, extract or summarize text from an image file.",
		Argument: "input: filesystem path of the image",
		Example:  `{"action": "ocr_extract_text", "input": "/path/to/image.png"}`,
	}
)

// Toolset is the fixed tool registry the executor dispatches to.
type Toolset struct {
	clock      Clock
	location   *time.Location
	ocr        OCREngine
	ocrEnabled bool
	ocrTimeout time.Duration
}

var _ contractx.ToolGateway = (*Toolset)(nil)

type Option func(*Toolset)

func WithClock(clock Clock) Option {
	return func(t *Toolset) {
		if clock != nil {
			t.clock = clock
		}
	}
}

func WithLocation(loc *time.Location) Option {
	return func(t *Toolset) {
		t.location = loc
	}
}

// WithOCR enables ocr_extract_text backed by engine.
func WithOCR(engine OCREngine, timeout time.Duration) Option {
	return func(t *Toolset) {
		t.ocr = engine
		t.ocrEnabled = true
		if timeout > 0 {
			t.ocrTimeout = timeout
		}
	}
}

func NewToolset(opts ...Option) *Toolset {
	t := &Toolset{
		clock:      time.Now,
		ocrTimeout: defaultOCRTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
	return t
}

// Roster lists the tools in the order prompts present them.
func (t *Toolset) Roster() []contractx.ToolSpec {
	roster := []contractx.ToolSpec{specCurrentTime, specCalculate}
	if t.ocrEnabled {
		roster = append(roster, specOCR)
	}
	return roster
}

// Execute runs the tool behind action. Tool failures come back as output
// text; only actions outside the roster return an error.
func (t *Toolset) Execute(ctx context.Context, action contractx.Action) (contractx.ToolResult, error) {
	switch action.Kind {
	case contractx.ActionGetCurrentTime:
		return contractx.ToolResult{
			Tool:   action.Kind,
			Slot:   statex.SlotCurrentTime,
			Output: CurrentTime(t.clock(), t.location),
		}, nil
	case contractx.ActionCalculate:
		out := Calculate(action.Input)
		return contractx.ToolResult{
			Tool:   action.Kind,
			Slot:   statex.SlotCalculation,
			Output: out,
			Failed: out == InvalidCalculation,
		}, nil
	case contractx.ActionOCRExtractText:
		if !t.ocrEnabled {
			break
		}
		source := strings.TrimSpace(action.Input)
		text, ok := ExtractText(ctx, t.ocr, source, t.ocrTimeout)
		result := contractx.ToolResult{
			Tool:   action.Kind,
			Slot:   statex.SlotOCRText,
			Output: text,
			Failed: !ok,
		}
		if ok {
			result.Record = &statex.DocumentRecord{Source: source, Text: text}
		}
		return result, nil
	}

	return contractx.ToolResult{}, fmt.Errorf("%w: %q", contractx.ErrUnrecognizedAction, action.Kind)
}
