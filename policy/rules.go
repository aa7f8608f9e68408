package policy

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/s0up4200/catalogprobe/catalog"
)

// Rule is a compiled boolean expression over a search response
type Rule struct {
	program *vm.Program
	expr    string
}

// helpers are available to every rule
var helpers = map[string]any{
	"isActive": IsActiveStatus,
	"activeOnly": func(items any) bool {
		return CheckActiveStatusFilter(records(items))
	},
	"withinLimit": func(items any) bool {
		return VerifyRankingOrder(records(items), DefaultRelevanceResults)
	},
	"catalogTags": func(items any) []string {
		return CatalogTags(records(items))
	},
	"catalogAccess": func(searched, tags any) bool {
		return ValidateCatalogAccess(catalogIDs(searched), strs(tags))
	},
	"lower": strings.ToLower,
}

// CompileRule compiles expression into a Rule. Top-level response fields
// (albums, venues, ...) are variables; the whole payload is "response".
func CompileRule(expression string) (*Rule, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, &CompilationError{Expression: expression, Reason: "empty expression"}
	}

	program, err := expr.Compile(expression,
		expr.Env(ruleEnv(map[string]any{})),
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{Expression: expression, Reason: err.Error(), Err: err}
	}

	return &Rule{program: program, expr: expression}, nil
}

// Evaluate runs the rule against payload, which is converted the same way
// SearchResponseSchemaErrors converts it.
func (r *Rule) Evaluate(payload any) (bool, error) {
	fields, err := asObject(payload)
	if err != nil {
		return false, &EvaluationError{Rule: r.expr, Reason: err.Error(), Err: err}
	}

	result, err := expr.Run(r.program, ruleEnv(fields))
	if err != nil {
		return false, &EvaluationError{Rule: r.expr, Reason: err.Error(), Err: err}
	}

	ok, isBool := result.(bool)
	if !isBool {
		return false, &EvaluationError{Rule: r.expr, Reason: fmt.Sprintf("result is %T, not bool", result)}
	}
	return ok, nil
}

// String returns the original expression
func (r *Rule) String() string {
	return r.expr
}

func ruleEnv(fields map[string]any) map[string]any {
	env := make(map[string]any, len(fields)+len(helpers)+2)
	for k, v := range fields {
		env[k] = v
	}
	for k, v := range helpers {
		env[k] = v
	}
	env["response"] = fields
	env["schemaValid"] = func() bool {
		return len(SearchResponseSchemaErrors(fields)) == 0
	}
	return env
}

// records converts a decoded JSON list into its object items
func records(items any) []map[string]any {
	switch v := items.(type) {
	case []map[string]any:
		return v
	case []any:
		out := make([]map[string]any, 0, len(v))
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	default:
		return nil
	}
}

func strs(v any) []string {
	switch s := v.(type) {
	case []string:
		return s
	case []any:
		out := make([]string, 0, len(s))
		for _, item := range s {
			out = append(out, fmt.Sprint(item))
		}
		return out
	case string:
		return []string{s}
	default:
		return nil
	}
}

func catalogIDs(v any) []catalog.CatalogID {
	names := strs(v)
	ids := make([]catalog.CatalogID, len(names))
	for i, name := range names {
		ids[i] = catalog.CatalogID(name)
	}
	return ids
}
