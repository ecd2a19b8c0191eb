package state

import (
	"maps"
	"slices"
)

// SchemaVersion is the shape of Document written by this build.
const SchemaVersion = 1

// Tool output slots.
const (
	SlotCurrentTime        = "current_time"
	SlotCalculation        = "calculation"
	SlotOCRText            = "ocr_text"
	SlotUnrecognizedAction = "unrecognized_action"
)

// Document is the persisted memory of the agent.
// - UserProfile: facts remembered about the user, last write wins per key
// - ToolOutputs: latest result per tool slot, reset every turn
// - Documents: OCR history, append-only
type Document struct {
	Version     int               `json:"version"`
	UserProfile map[string]string `json:"user_profile"`
	ToolOutputs map[string]string `json:"tool_outputs"`
	Documents   []DocumentRecord  `json:"documents,omitempty"`
	UserInput   string            `json:"user_input,omitempty"`
}

type DocumentRecord struct {
	Source string `json:"source"`
	Text   string `json:"text"`
}

// NewDocument returns the empty document used when nothing is stored yet.
func NewDocument() *Document {
	return &Document{
		Version:     SchemaVersion,
		UserProfile: make(map[string]string, 4),
		ToolOutputs: make(map[string]string, 4),
	}
}

// EnsureDefaults fills the sub-mappings a freshly decoded document may lack.
func (d *Document) EnsureDefaults() {
	if d.Version <= 0 {
		d.Version = SchemaVersion
	}
	if d.UserProfile == nil {
		d.UserProfile = make(map[string]string, 4)
	}
	if d.ToolOutputs == nil {
		d.ToolOutputs = make(map[string]string, 4)
	}
}

func (d *Document) Remember(key, value string) {
	d.EnsureDefaults()
	d.UserProfile[key] = value
}

func (d *Document) SetToolOutput(slot, value string) {
	d.EnsureDefaults()
	d.ToolOutputs[slot] = value
}

// ResetToolOutputs drops every tool result; called when a new turn starts.
func (d *Document) ResetToolOutputs() {
	d.ToolOutputs = make(map[string]string, 4)
}

func (d *Document) AppendRecord(source, text string) {
	d.Documents = append(d.Documents, DocumentRecord{Source: source, Text: text})
}

// Clone returns a deep copy so callers can snapshot before mutating.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	return &Document{
		Version:     d.Version,
		UserProfile: maps.Clone(d.UserProfile),
		ToolOutputs: maps.Clone(d.ToolOutputs),
		Documents:   slices.Clone(d.Documents),
		UserInput:   d.UserInput,
	}
}
