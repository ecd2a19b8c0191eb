package state

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrStorageFormat = errors.New("stored memory is not a well-formed document")
	ErrNilDocument   = errors.New("memory document is nil")
)

// Encode renders the document the way every backend stores it:
// two-space indentation, sorted map keys and a trailing newline.
func Encode(doc *Document) ([]byte, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}
	doc.EnsureDefaults()

	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal memory document: %w", err)
	}
	return append(payload, '\n'), nil
}

// Decode parses stored content. Anything that is not a single JSON object
// is reported as ErrStorageFormat.
func Decode(raw []byte) (*Document, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: content is empty", ErrStorageFormat)
	}
	if trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: top-level value is not an object", ErrStorageFormat)
	}

	var doc Document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFormat, err)
	}

	doc.EnsureDefaults()
	return &doc, nil
}
