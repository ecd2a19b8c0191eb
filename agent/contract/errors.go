package contract

import (
	"errors"

	statex "github.com/tanpawarit/memagent/agent/state"
)

var (
	ErrProvider           = errors.New("model provider unavailable")
	ErrDecisionParse      = errors.New("model reply is not a valid action")
	ErrUnrecognizedAction = errors.New("unrecognized action")
	ErrToolExecution      = errors.New("tool execution failed")
	ErrStepLimit          = errors.New("step limit reached without a final answer")
	ErrPromptMissing      = errors.New("required prompt is missing")
	ErrValidation         = errors.New("validation failed")

	ErrStorageFormat = statex.ErrStorageFormat
)
