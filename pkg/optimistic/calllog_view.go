package optimistic

import (
	"context"
	"fmt"
	"sync"

	"github.com/nainya/commsdesk/pkg/calllog"
)

// Qualifier persists a call's qualification flag
type Qualifier interface {
	SetQualification(ctx context.Context, callID string, qualified bool) (*calllog.CallRecord, error)
}

// CallLogView is the local state behind the call log page: the loaded
// list and the call open in the detail panel
type CallLogView struct {
	mu       sync.Mutex
	calls    []*calllog.CallRecord
	selected *calllog.CallRecord
	backend  Qualifier
}

// NewCallLogView creates a view over a loaded call list
func NewCallLogView(backend Qualifier, calls []*calllog.CallRecord) *CallLogView {
	v := &CallLogView{backend: backend}
	for _, c := range calls {
		v.calls = append(v.calls, c.Clone())
	}
	return v
}

// Calls returns a copy of the local list
func (v *CallLogView) Calls() []*calllog.CallRecord {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := make([]*calllog.CallRecord, len(v.calls))
	for i, c := range v.calls {
		out[i] = c.Clone()
	}
	return out
}

// Select opens a call in the detail panel
func (v *CallLogView) Select(callID string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	for _, c := range v.calls {
		if c.ID == callID {
			v.selected = c.Clone()
			return true
		}
	}
	return false
}

// Selected returns the call open in the detail panel, if any
func (v *CallLogView) Selected() *calllog.CallRecord {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.selected.Clone()
}

// setLocal writes the flag into the list and the selected call
func (v *CallLogView) setLocal(callID string, qualified bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	for _, c := range v.calls {
		if c.ID == callID {
			c.IsQualified = qualified
		}
	}
	if v.selected != nil && v.selected.ID == callID {
		v.selected.IsQualified = qualified
	}
}

func (v *CallLogView) flag(callID string) (bool, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	for _, c := range v.calls {
		if c.ID == callID {
			return c.IsQualified, true
		}
	}
	return false, false
}

// ToggleQualification flips a call's flag locally right away, persists it
// through the backend and restores the previous value if that fails
func (v *CallLogView) ToggleQualification(ctx context.Context, callID string) error {
	prev, ok := v.flag(callID)
	if !ok {
		return fmt.Errorf("call %s: %w", callID, calllog.ErrNotFound)
	}
	next := !prev

	return Run(ctx, Transition{
		Apply:  func() { v.setLocal(callID, next) },
		Revert: func() { v.setLocal(callID, prev) },
	}, func(ctx context.Context) error {
		_, err := v.backend.SetQualification(ctx, callID, next)
		return err
	})
}
