package probe

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// compilePredicate compiles a boolean expr expression against a sample
// environment. Compilation happens once at probe construction; a bad
// expression is a configuration error surfaced before any probing begins.
func compilePredicate(src string, env map[string]any) (*vm.Program, error) {
	program, err := expr.Compile(src, expr.Env(env), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compiling predicate %q: %w", src, err)
	}
	return program, nil
}

// evalPredicate runs a compiled predicate. Evaluation errors (e.g. a
// runtime type mismatch) count as predicate failure, not as a crash.
func evalPredicate(program *vm.Program, env map[string]any) (bool, error) {
	out, err := expr.Run(program, env)
	if err != nil {
		return false, fmt.Errorf("evaluating predicate: %w", err)
	}
	ok, isBool := out.(bool)
	if !isBool {
		return false, fmt.Errorf("predicate returned %T, want bool", out)
	}
	return ok, nil
}
