package optimistic

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nainya/commsdesk/pkg/calllog"
)

func TestRunCommits(t *testing.T) {
	state := "old"

	err := Run(context.Background(), Transition{
		Apply:  func() { state = "new" },
		Revert: func() { state = "old" },
	}, func(context.Context) error {
		assert.Equal(t, "new", state, "speculative state must be visible during commit")
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, "new", state)
}

func TestRunReverts(t *testing.T) {
	state := "old"
	boom := errors.New("boom")

	err := Run(context.Background(), Transition{
		Apply:  func() { state = "new" },
		Revert: func() { state = "old" },
	}, func(context.Context) error { return boom })

	require.ErrorIs(t, err, boom)
	assert.Equal(t, "old", state)
}

type fakeQualifier struct {
	err   error
	calls []string
}

func (f *fakeQualifier) SetQualification(_ context.Context, callID string, qualified bool) (*calllog.CallRecord, error) {
	f.calls = append(f.calls, callID)
	if f.err != nil {
		return nil, f.err
	}
	return &calllog.CallRecord{ID: callID, IsQualified: qualified}, nil
}

func testCalls() []*calllog.CallRecord {
	return []*calllog.CallRecord{
		{ID: "a"},
		{ID: "b", IsQualified: true},
	}
}

func TestToggleQualificationSuccess(t *testing.T) {
	backend := &fakeQualifier{}
	view := NewCallLogView(backend, testCalls())
	require.True(t, view.Select("a"))

	require.NoError(t, view.ToggleQualification(context.Background(), "a"))

	calls := view.Calls()
	assert.True(t, calls[0].IsQualified)
	assert.True(t, calls[1].IsQualified)
	assert.True(t, view.Selected().IsQualified)
	assert.Equal(t, []string{"a"}, backend.calls)
}

func TestToggleQualificationRevertsOnFailure(t *testing.T) {
	backend := &fakeQualifier{err: errors.New("network down")}
	view := NewCallLogView(backend, testCalls())
	require.True(t, view.Select("b"))

	err := view.ToggleQualification(context.Background(), "b")

	require.Error(t, err)
	assert.True(t, view.Calls()[1].IsQualified)
	assert.True(t, view.Selected().IsQualified)
}

func TestToggleQualificationUnknownCall(t *testing.T) {
	backend := &fakeQualifier{}
	view := NewCallLogView(backend, testCalls())

	err := view.ToggleQualification(context.Background(), "zzz")

	require.ErrorIs(t, err, calllog.ErrNotFound)
	assert.Empty(t, backend.calls)
	assert.Nil(t, view.Selected())
	assert.False(t, view.Select("zzz"))
}
