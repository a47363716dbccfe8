// ABOUTME: Two-phase optimistic state transitions
// ABOUTME: Apply speculative local state, then commit or revert

package optimistic

import (
	"context"
	"fmt"
)

// Transition is a speculative local change and its inverse
type Transition struct {
	Apply  func()
	Revert func()
}

// Run applies t, then runs commit. When commit fails the transition is
// reverted and the commit error is returned.
func Run(ctx context.Context, t Transition, commit func(context.Context) error) error {
	if t.Apply != nil {
		t.Apply()
	}

	if err := commit(ctx); err != nil {
		if t.Revert != nil {
			t.Revert()
		}
		return fmt.Errorf("commit failed, local change reverted: %w", err)
	}
	return nil
}
