package main

import (
	"errors"
)

// Exit codes for the drawio-export CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Every page handled (failed pages included unless --strict)
	ExitGeneral = 1 // Fatal error: config, document, directory, renderer, missing input
	ExitUsage   = 2 // Invalid flags or arguments
	ExitPartial = 3 // Some pages failed and --strict was given
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, ErrPartialFailure) {
		return ExitPartial
	}

	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrUnknownCommand) {
		return ExitUsage
	}

	return ExitGeneral
}
