package activity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecord_TakeCleanups_ReverseOrder(t *testing.T) {
	rec := &Record{Key: "home"}

	var order []string
	rec.AddCleanup(func() { order = append(order, "first") }, false)
	rec.AddCleanup(func() { order = append(order, "second") }, false)
	rec.AddCleanup(func() { order = append(order, "third") }, false)

	for _, fn := range rec.TakeCleanups(true) {
		fn()
	}

	assert.Equal(t, []string{"third", "second", "first"}, order)
	assert.Equal(t, 0, rec.CleanupCount())
}

func TestRecord_TakeCleanups_KeepsModeIndependent(t *testing.T) {
	rec := &Record{Key: "home"}

	var ran []string
	rec.AddCleanup(func() { ran = append(ran, "scoped") }, false)
	rec.AddCleanup(func() { ran = append(ran, "independent") }, true)

	for _, fn := range rec.TakeCleanups(false) {
		fn()
	}
	assert.Equal(t, []string{"scoped"}, ran)
	assert.Equal(t, 1, rec.CleanupCount())

	for _, fn := range rec.TakeCleanups(true) {
		fn()
	}
	assert.Equal(t, []string{"scoped", "independent"}, ran)
	assert.Equal(t, 0, rec.CleanupCount())
}

func TestRecord_TakeCleanups_Empty(t *testing.T) {
	rec := &Record{Key: "home"}
	assert.Empty(t, rec.TakeCleanups(true))
}

func TestRecord_Snapshot(t *testing.T) {
	payload := map[string]int{"count": 3}
	rec := &Record{
		Key:     "checkout",
		Mode:    ModeVisible,
		Payload: payload,
		Cost:    2.5,
	}

	h := rec.Snapshot()
	assert.Equal(t, "checkout", h.Key)
	assert.Equal(t, ModeVisible, h.Mode)
	assert.Equal(t, 2.5, h.Cost)
	assert.Equal(t, payload, h.Payload.(map[string]int))
}
