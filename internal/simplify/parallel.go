package simplify

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/aspfol/aspfol/internal/ast"
)

// All simplifies every formula in formulas to a fixed point, one per
// goroutine. Per spec.md §5, simplification of independent completed
// definitions shares no mutable state (each formula's variable
// declarations belong to it alone by this stage) and so is declared safe
// to parallelise, unlike C4/C6 which must stay serial.
func All(formulas []ast.Formula) []ast.Formula {
	out := make([]ast.Formula, len(formulas))

	g, _ := errgroup.WithContext(context.Background())

	for i, f := range formulas {
		i, f := i, f

		g.Go(func() error {
			out[i] = Formula(f)
			return nil
		})
	}

	_ = g.Wait()

	return out
}
