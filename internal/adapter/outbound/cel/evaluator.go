// Package cel evaluates the note conditions of custom policy catalogs with CEL.
package cel

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/cel-go/cel"

	"github.com/Sentinel-Gate/admitgate/internal/domain/admission"
	"github.com/Sentinel-Gate/admitgate/internal/domain/criteria"
)

// maxExpressionLength is the maximum allowed length for note conditions.
const maxExpressionLength = 1024

// maxCostBudget is the CEL runtime cost limit.
const maxCostBudget = 100_000

// maxNestingDepth is the maximum allowed parenthesis/bracket nesting depth.
const maxNestingDepth = 50

// evalTimeout is the maximum time allowed for a single evaluation.
const evalTimeout = 5 * time.Second

// interruptCheckFreq is how often (in comprehension iterations) context cancellation is checked.
const interruptCheckFreq = 100

// Evaluator compiles note conditions.
type Evaluator struct {
	env *cel.Env
}

// NewEvaluator creates a new CEL evaluator with the note environment.
func NewEvaluator() (*Evaluator, error) {
	env, err := NewNoteEnvironment()
	if err != nil {
		return nil, fmt.Errorf("failed to create note environment: %w", err)
	}
	return &Evaluator{env: env}, nil
}

// Compile parses and type-checks an expression, returning a compiled program.
// The expression must produce a bool (or dyn, checked at evaluation time).
func (e *Evaluator) Compile(expression string) (cel.Program, error) {
	ast, issues := e.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compilation failed: %w", issues.Err())
	}

	out := ast.OutputType()
	if !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
		return nil, fmt.Errorf("expression must return bool, got %s", out)
	}

	prg, err := e.env.Program(ast,
		cel.EvalOptions(cel.OptOptimize),
		cel.CostLimit(maxCostBudget),
		cel.InterruptCheckFrequency(interruptCheckFreq),
	)
	if err != nil {
		return nil, fmt.Errorf("program creation failed: %w", err)
	}

	return prg, nil
}

// validateNesting checks that the expression does not exceed the maximum
// nesting depth for parentheses, brackets, and braces.
func validateNesting(expr string) error {
	var depth, maxDepth int
	for _, ch := range expr {
		switch ch {
		case '(', '[', '{':
			depth++
			if depth > maxDepth {
				maxDepth = depth
			}
		case ')', ']', '}':
			depth--
		}
	}
	if maxDepth > maxNestingDepth {
		return fmt.Errorf("expression nesting too deep: %d levels (max %d)", maxDepth, maxNestingDepth)
	}
	return nil
}

// checkLimits enforces the length and nesting limits before compilation.
func checkLimits(expr string) error {
	if len(expr) > maxExpressionLength {
		return fmt.Errorf("expression too long: %d characters (max %d)", len(expr), maxExpressionLength)
	}
	if expr == "" {
		return errors.New("expression is empty")
	}
	return validateNesting(expr)
}

// ValidateExpression checks that an expression is well-formed and within
// the safety limits (length, nesting depth).
func (e *Evaluator) ValidateExpression(expr string) error {
	_, err := e.NewCondition(expr)
	return err
}

// Condition is a compiled boolean expression over partitioned facts.
type Condition struct {
	expression string
	program    cel.Program
}

// NewCondition validates and compiles expr into a Condition.
func (e *Evaluator) NewCondition(expr string) (*Condition, error) {
	if err := checkLimits(expr); err != nil {
		return nil, err
	}
	prg, err := e.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid CEL expression: %w", err)
	}
	return &Condition{expression: expr, program: prg}, nil
}

// Expression returns the source expression.
func (c *Condition) Expression() string {
	return c.expression
}

// Holds evaluates the expression against the partitioned facts.
func (c *Condition) Holds(facts admission.Facts) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), evalTimeout)
	defer cancel()

	result, _, err := c.program.ContextEval(ctx, BuildActivation(facts))
	if err != nil {
		return false, fmt.Errorf("evaluation failed: %w", err)
	}

	boolResult, ok := result.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression did not return a boolean, got %T", result.Value())
	}

	return boolResult, nil
}

// Annotator emits the text of every catalog note whose condition holds,
// in catalog order.
type Annotator struct {
	conditions []*Condition
	texts      []string
}

// NewAnnotator compiles the when expression of each note.
func (e *Evaluator) NewAnnotator(notes []criteria.Note) (*Annotator, error) {
	a := &Annotator{
		conditions: make([]*Condition, 0, len(notes)),
		texts:      make([]string, 0, len(notes)),
	}
	for i, n := range notes {
		cond, err := e.NewCondition(n.When)
		if err != nil {
			return nil, fmt.Errorf("notes[%d]: %w", i, err)
		}
		a.conditions = append(a.conditions, cond)
		a.texts = append(a.texts, n.Text)
	}
	return a, nil
}

// Annotate implements admission.Annotator.
func (a *Annotator) Annotate(facts admission.Facts) ([]string, error) {
	var out []string
	for i, cond := range a.conditions {
		ok, err := cond.Holds(facts)
		if err != nil {
			return nil, fmt.Errorf("note %q: %w", cond.Expression(), err)
		}
		if ok {
			out = append(out, a.texts[i])
		}
	}
	return out, nil
}

// BuildActivation maps facts to CEL variables. Absent criteria are null.
func BuildActivation(facts admission.Facts) map[string]any {
	states := make(map[string]any, len(facts.States))
	for name, st := range facts.States {
		if v, known := st.Bool(); known {
			states[name] = v
		} else {
			states[name] = nil
		}
	}
	return map[string]any{
		"triggered": nonNil(facts.Triggered),
		"missing":   nonNil(facts.Missing),
		"not_met":   nonNil(facts.NotMet),
		"criteria":  states,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Compile-time check that Annotator implements admission.Annotator.
var _ admission.Annotator = (*Annotator)(nil)
