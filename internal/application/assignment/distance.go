package assignment

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/hapkiduki/fulfillment-go/internal/domain/entity"
	"github.com/hapkiduki/fulfillment-go/internal/domain/fulfillment"
)

// distanceTable holds customer -> warehouse distances, indexed by the
// warehouse's enumeration position.
type distanceTable map[string][]float64

// buildDistanceTable measures every customer against every warehouse.
// Rows are computed in parallel; the table is read-only afterwards.
func buildDistanceTable(
	ctx context.Context,
	ops *fulfillment.Operations,
	customers []*entity.Customer,
	workers int,
) (distanceTable, error) {
	warehouses := ops.Warehouses()
	rows := make([][]float64, len(customers))

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for i, c := range customers {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("distance row for customer %s: %w", c.ID, err)
			}
			row := make([]float64, len(warehouses))
			for wi, w := range warehouses {
				row[wi] = ops.Distance(w, c)
			}
			rows[i] = row
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	table := make(distanceTable, len(customers))
	for i, c := range customers {
		table[c.ID] = rows[i]
	}
	return table, nil
}
