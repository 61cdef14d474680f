package sweep

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nomis52/keep/activity"
	"github.com/nomis52/keep/registry"
)

func TestSweeper_Run_EnforcesBudget(t *testing.T) {
	reg := registry.New()
	t.Cleanup(reg.Close)

	for _, key := range []string{"a", "b", "c"} {
		_, err := reg.SetMode(key, activity.ModeHidden, nil)
		require.NoError(t, err)
	}

	sweeper := NewSweeper(reg, slog.Default())
	require.NoError(t, sweeper.Run())
	assert.Equal(t, 3, reg.Len())

	require.NoError(t, reg.ConfigureBudget(registry.MaxCount(1)))
	require.NoError(t, sweeper.Run())
	assert.Equal(t, 1, reg.Len())
}

type fakeTarget struct {
	evicted int
	status  registry.Status
}

func (f *fakeTarget) EnforceBudget() int {
	return f.evicted
}

func (f *fakeTarget) Status() registry.Status {
	return f.status
}

func TestSweeper_Run_ReportsStatus(t *testing.T) {
	target := &fakeTarget{
		evicted: 2,
		status:  registry.Status{Records: 5, Visible: 3, Hidden: 2},
	}
	sweeper := NewSweeper(target, slog.Default())
	assert.NoError(t, sweeper.Run())
}
