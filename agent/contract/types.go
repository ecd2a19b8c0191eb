package contract

import (
	statex "github.com/tanpawarit/memagent/agent/state"
)

type Mode string

const (
	ModeReactive Mode = "reactive"
	ModePlanning Mode = "planning"
)

// Role selects per-call model settings.
type Role string

const (
	RoleDecision    Role = "decision"
	RolePlanner     Role = "planner"
	RoleSynthesizer Role = "synthesizer"
)

type ActionKind string

const (
	ActionRemember       ActionKind = "remember"
	ActionGetCurrentTime ActionKind = "get_current_time"
	ActionCalculate      ActionKind = "calculate"
	ActionOCRExtractText ActionKind = "ocr_extract_text"
	ActionFinal          ActionKind = "final"
)

// Action is one decided step. Unknown kinds are kept as-is so the
// executor can skip them with a diagnostic.
type Action struct {
	Kind  ActionKind `json:"action"`
	Key   string     `json:"key,omitempty"`
	Value string     `json:"value,omitempty"`
	Input string     `json:"input,omitempty"`
}

func (a Action) IsFinal() bool {
	return a.Kind == ActionFinal
}

// Known reports whether the kind belongs to the action vocabulary.
func (k ActionKind) Known() bool {
	switch k {
	case ActionRemember, ActionGetCurrentTime, ActionCalculate, ActionOCRExtractText, ActionFinal:
		return true
	default:
		return false
	}
}

type Plan struct {
	Steps []Action `json:"plan"`
}

type DecisionRequest struct {
	// Context is the re-prompt text: original question plus recap.
	Context string
	Memory  *statex.Document
}

type PlanRequest struct {
	UserMessage string
	Memory      *statex.Document
}

type SynthesisRequest struct {
	UserMessage string
	Memory      *statex.Document
}

// ToolSpec describes one tool to the model.
type ToolSpec struct {
	Name     ActionKind
	Usage    string
	Argument string
	Example  string
}

type ToolResult struct {
	Tool   ActionKind `json:"tool"`
	Slot   string     `json:"slot"`
	Output string     `json:"output"`
	Failed bool       `json:"failed,omitempty"`

	// Record is set by tools that also append to the document history.
	Record *statex.DocumentRecord `json:"record,omitempty"`
}
