package cel

import (
	"path/filepath"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/ext"
)

// NewNoteEnvironment creates the CEL environment for note conditions.
// Variables:
//   - triggered, missing, not_met: criterion names per state, in catalog order
//   - criteria: map of criterion name to true, false or null
//
// Functions: glob(pattern, name) for shell-style name matching.
func NewNoteEnvironment() (*cel.Env, error) {
	return cel.NewEnv(
		ext.Strings(),
		ext.Sets(),

		cel.Variable("triggered", cel.ListType(cel.StringType)),
		cel.Variable("missing", cel.ListType(cel.StringType)),
		cel.Variable("not_met", cel.ListType(cel.StringType)),
		cel.Variable("criteria", cel.MapType(cel.StringType, cel.DynType)),

		cel.Function("glob",
			cel.Overload("glob_string_string",
				[]*cel.Type{cel.StringType, cel.StringType},
				cel.BoolType,
				cel.BinaryBinding(func(pattern, name ref.Val) ref.Val {
					p := pattern.Value().(string)
					n := name.Value().(string)
					matched, _ := filepath.Match(p, n)
					return types.Bool(matched)
				}),
			),
		),
	)
}
