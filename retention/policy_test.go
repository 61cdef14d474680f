package retention

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicy_InsertAndRemove(t *testing.T) {
	p := NewPolicy()

	p.Insert("a", 1, 1, 1)
	p.Insert("b", 2, 2, 2)

	assert.Equal(t, 2, p.Len())
	assert.Equal(t, 3.0, p.TotalCost())
	assert.True(t, p.Contains("a"))

	p.Remove("a")
	assert.Equal(t, 1, p.Len())
	assert.Equal(t, 2.0, p.TotalCost())
	assert.False(t, p.Contains("a"))

	// Removing an unknown key is a no-op.
	p.Remove("missing")
	assert.Equal(t, 1, p.Len())
}

func TestPolicy_ReinsertRefreshes(t *testing.T) {
	p := NewPolicy()

	p.Insert("a", 1, 1, 1)
	p.Insert("b", 1, 2, 2)
	p.Insert("a", 4, 3, 1)

	assert.Equal(t, 2, p.Len())
	assert.Equal(t, 5.0, p.TotalCost())
	assert.Equal(t, []string{"a", "b"}, p.Keys())
}

func TestPolicy_NextEviction_LRUOrder(t *testing.T) {
	p := NewPolicy()

	p.Insert("a", 1, 1, 1)
	p.Insert("b", 1, 2, 2)
	p.Insert("c", 1, 3, 3)

	key, ok := p.NextEviction()
	require.True(t, ok)
	assert.Equal(t, "a", key)

	// Touch moves a key to the MRU end.
	p.Touch("a", 4)
	key, ok = p.NextEviction()
	require.True(t, ok)
	assert.Equal(t, "b", key)
}

func TestPolicy_UpdateCost_KeepsPosition(t *testing.T) {
	p := NewPolicy()

	p.Insert("a", 1, 1, 1)
	p.Insert("b", 1, 2, 2)

	p.UpdateCost("a", 5)

	assert.Equal(t, 6.0, p.TotalCost())
	// "a" is still the least recently used despite the cost change.
	key, ok := p.NextEviction()
	require.True(t, ok)
	assert.Equal(t, "a", key)
	assert.Equal(t, []string{"b", "a"}, p.Keys())

	// Unknown keys are ignored.
	p.UpdateCost("missing", 9)
	assert.Equal(t, 6.0, p.TotalCost())
}

func TestPolicy_NextEviction_Empty(t *testing.T) {
	p := NewPolicy()
	_, ok := p.NextEviction()
	assert.False(t, ok)
}

func TestPolicy_NextEviction_TieBreaksByCreationOrder(t *testing.T) {
	p := NewPolicy()

	// A bulk prefetch hides several records in the same logical instant.
	const accessedAt = 7
	p.Insert("first", 1, accessedAt, 1)
	p.Insert("second", 1, accessedAt, 2)
	p.Insert("third", 1, accessedAt, 3)

	var evicted []string
	for p.Len() > 0 {
		key, ok := p.NextEviction()
		require.True(t, ok)
		evicted = append(evicted, key)
		p.Remove(key)
	}

	assert.Equal(t, []string{"first", "second", "third"}, evicted)
}

func TestPolicy_OverBudget_CountAxis(t *testing.T) {
	p := NewPolicy()
	p.SetBudget(2, Unbounded)

	p.Insert("a", 1, 1, 1)
	p.Insert("b", 1, 2, 2)
	assert.False(t, p.OverBudget())

	p.Insert("c", 1, 3, 3)
	assert.True(t, p.OverBudget())

	p.Remove("a")
	assert.False(t, p.OverBudget())
}

func TestPolicy_OverBudget_CostAxis(t *testing.T) {
	p := NewPolicy()
	p.SetBudget(Unbounded, 5)

	p.Insert("a", 3, 1, 1)
	p.Insert("b", 2, 2, 2)
	assert.False(t, p.OverBudget())

	p.Insert("c", 0.5, 3, 3)
	assert.True(t, p.OverBudget())
}

func TestPolicy_OverBudget_Unbounded(t *testing.T) {
	p := NewPolicy()

	for i := 0; i < 100; i++ {
		p.Insert(string(rune('a'+i%26))+string(rune('0'+i/26)), 10, uint64(i), uint64(i))
	}
	assert.False(t, p.OverBudget())
}

func TestPolicy_Stats(t *testing.T) {
	p := NewPolicy()
	p.SetBudget(10, 20)
	p.Insert("a", 3, 1, 1)

	st := p.Stats()
	assert.Equal(t, 1, st.HiddenCount)
	assert.Equal(t, 3.0, st.TotalCost)
	assert.Equal(t, 10, st.MaxCount)
	assert.Equal(t, 20.0, st.MaxCost)
}

func TestPolicy_Keys_MRUFirst(t *testing.T) {
	p := NewPolicy()

	p.Insert("a", 1, 1, 1)
	p.Insert("b", 1, 2, 2)
	p.Insert("c", 1, 3, 3)
	p.Touch("b", 4)

	assert.Equal(t, []string{"b", "c", "a"}, p.Keys())
}
