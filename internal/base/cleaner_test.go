package base

import (
	"context"
	"errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

type recordingCallable struct {
	name  string
	order *[]string
	err   error
}

func (r *recordingCallable) Invoke(_ context.Context) error {
	*r.order = append(*r.order, r.name)
	return r.err
}

func TestCleanerReverseOrder(t *testing.T) {
	cleaner := NewCleaner(NewDiscardLogger())
	exitCodes := make([]int, 0, 1)
	cleaner.exit = func(code int) { exitCodes = append(exitCodes, code) }

	order := make([]string, 0, 3)
	failure := errors.New("database busy")
	cleaner.Add(&recordingCallable{name: "database", order: &order, err: failure})
	cleaner.Add(&recordingCallable{name: "client", order: &order})
	cleaner.Add(&recordingCallable{name: "http", order: &order})

	err := cleaner.invokeAll()
	require.Error(t, err)
	assert.ErrorIs(t, err, failure)
	assert.Equal(t, []string{"http", "client", "database"}, order)

	// 清理开始后不再接受新的回调
	cleaner.Add(&recordingCallable{name: "late", order: &order})
	cleaner.Clean()
	cleaner.Clean()
	assert.Equal(t, []int{0}, exitCodes)
	assert.NotContains(t, order, "late")
}

func TestCleanerReload(t *testing.T) {
	cleaner := NewCleaner(NewDiscardLogger())
	calls := 0
	cleaner.OnReload(func() error {
		calls++
		return nil
	})
	cleaner.OnReload(func() error {
		calls++
		return errors.New("invalid configuration")
	})
	cleaner.reload()
	assert.Equal(t, 2, calls)
}
