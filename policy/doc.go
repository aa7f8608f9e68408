// Package policy evaluates catalog API responses against visibility and
// shape rules.
//
// The checks are pure functions of their inputs. ValidateCatalogAccess,
// CheckActiveStatusFilter, VerifyRankingOrder and ValidateSearchResponseSchema
// cover the fixed policies; Rule and Compiler let callers express additional
// checks as expr-lang expressions over a decoded response:
//
//	rule, err := policy.CompileRule(`activeOnly(albums) && catalogAccess(["nugs"], catalogTags(albums))`)
//	ok, err := rule.Evaluate(payload)
package policy
