package llm

import "errors"

// Sentinel kinds for LLM errors.
var (
	ErrNoProvider      = errors.New("no llm provider configured")
	ErrUnparsableScore = errors.New("no numeric score in llm response")
)
