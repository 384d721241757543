// ABOUTME: Domain-level sentinel errors for the page pipeline service
// ABOUTME: These errors are used with errors.Is() for error type checking
package domain

import "errors"

// Page-related errors
var (
	// ErrPageNotFound indicates the requested page does not exist
	ErrPageNotFound = errors.New("page not found")

	// ErrInvalidTopic indicates the topic query is empty or oversized,
	// rejected before any side effect
	ErrInvalidTopic = errors.New("invalid topic query")
)

// Collaborator errors
var (
	// ErrGenerationFailed indicates the generation collaborator failed or
	// returned empty content; no partial page is ever persisted
	ErrGenerationFailed = errors.New("content generation failed")
)

// Task-related errors
var (
	// ErrTaskNotFound indicates the requested refresh task does not exist
	ErrTaskNotFound = errors.New("refresh task not found")

	// ErrJobNotFound indicates the requested scheduled job does not exist
	ErrJobNotFound = errors.New("job not found")
)
