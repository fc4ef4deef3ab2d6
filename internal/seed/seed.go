// Package seed populates the memory store with a starting floor plan so the
// service is usable out of the box. The postgres driver manages its own data.
package seed

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/YelzhanWeb/tables/internal/adapter/logger"
	"github.com/YelzhanWeb/tables/internal/domain"
	"github.com/YelzhanWeb/tables/internal/interfaces"
)

// Floor plan: four two-tops, three four-tops, three six-tops.
var tableCapacities = []int{2, 2, 2, 2, 4, 4, 4, 6, 6, 6}

var waiterNames = []string{"Aliya", "Marat", "Dana", "Timur"}

func Run(ctx context.Context, tables interfaces.TableRepository, waiters interfaces.WaiterRepository, lgr logger.Logger) error {
	for i, capacity := range tableCapacities {
		t, err := domain.NewTable(i+1, capacity)
		if err != nil {
			return fmt.Errorf("failed to build table %d: %w", i+1, err)
		}
		t.ID = uuid.NewString()
		if err := tables.Create(ctx, t); err != nil {
			return fmt.Errorf("failed to seed table %d: %w", i+1, err)
		}
	}

	for _, name := range waiterNames {
		w, err := domain.NewWaiter(name)
		if err != nil {
			return fmt.Errorf("failed to build waiter %s: %w", name, err)
		}
		w.ID = uuid.NewString()
		if err := waiters.Create(ctx, w); err != nil {
			return fmt.Errorf("failed to seed waiter %s: %w", name, err)
		}
	}

	lgr.Info("seed_completed", "Seeded sample tables and waiters", "startup", map[string]interface{}{
		"tables":  len(tableCapacities),
		"waiters": len(waiterNames),
	})
	return nil
}
