package cmd

import "github.com/Sentinel-Gate/admitgate/internal/domain/criteria"

// Process exit codes. Each input error kind has its own code.
const (
	exitFailure          = 1
	exitFileNotFound     = 3
	exitMalformedJSON    = 4
	exitUnknownCriterion = 5
	exitInvalidValueType = 6
)

// exitCode maps err to the process exit status.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	kind, ok := criteria.KindOf(err)
	if !ok {
		return exitFailure
	}
	switch kind {
	case criteria.KindFileNotFound:
		return exitFileNotFound
	case criteria.KindMalformedJSON:
		return exitMalformedJSON
	case criteria.KindUnknownCriterion:
		return exitUnknownCriterion
	case criteria.KindInvalidValueType:
		return exitInvalidValueType
	default:
		return exitFailure
	}
}
