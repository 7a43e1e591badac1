// Package constants provides shared constants used across the application
// to avoid circular dependencies between packages.
package constants

import "time"

// Timeout constants used across the application
const (
	// DefaultAPITimeout is the timeout for a single completion request
	DefaultAPITimeout = 60 * time.Second
	// DefaultSetupTimeout is the timeout for fetching a token during init
	DefaultSetupTimeout = 30 * time.Second
)

// Application defaults
const (
	DefaultAPIBaseURL = "https://api.openai.com/v1"
	DefaultModel      = "gpt-3.5-turbo-instruct"
	DefaultSetupURL   = "https://fant.io/x"
	DefaultShell      = "/bin/sh"
	DefaultLogLevel   = "none"
)

// Completion request parameters. Sampling is deterministic.
const (
	CompletionMaxTokens = 300
	CompletionStop      = "#"
)

// MaxAttempts is the number of rejections after which a session gives up.
const MaxAttempts = 3

// InitQuery is the reserved query that runs credential setup instead of a
// suggestion session.
const InitQuery = "init"
