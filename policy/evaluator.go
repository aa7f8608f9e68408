package policy

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// EvaluateAll runs every named rule against payload concurrently. The first
// failure cancels the rules that have not started yet and is returned.
func EvaluateAll(ctx context.Context, rules map[string]*Rule, payload any) (map[string]bool, error) {
	results := make(map[string]bool, len(rules))
	if len(rules) == 0 {
		return results, nil
	}

	fields, err := asObject(payload)
	if err != nil {
		return nil, &EvaluationError{Reason: err.Error(), Err: err}
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for name, rule := range rules {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			ok, err := rule.Evaluate(fields)
			if err != nil {
				return fmt.Errorf("rule %s: %w", name, err)
			}

			mu.Lock()
			results[name] = ok
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
