package task_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/autocontrib/infrastructure/task"
	testdoubles "github.com/rios0rios0/autocontrib/test"
)

func TestRegistry(t *testing.T) {
	t.Parallel()

	t.Run("should return registered tasks by name", func(t *testing.T) {
		t.Parallel()

		// given
		registry := task.NewRegistry()
		spy := &testdoubles.SpyTask{TaskName: "docsindex"}
		registry.Register(spy)

		// when
		found := registry.Get("docsindex")

		// then
		require.NotNil(t, found)
		assert.Equal(t, "docsindex", found.Name())
	})

	t.Run("should return nil for unknown tasks", func(t *testing.T) {
		t.Parallel()

		// given
		registry := task.NewRegistry()

		// when / then
		assert.Nil(t, registry.Get("unknown"))
	})

	t.Run("should list every registered task", func(t *testing.T) {
		t.Parallel()

		// given
		registry := task.NewRegistry()
		registry.Register(&testdoubles.SpyTask{TaskName: "docsindex"})
		registry.Register(&testdoubles.SpyTask{TaskName: "doccoverage"})

		// when / then
		assert.Len(t, registry.All(), 2)
		assert.ElementsMatch(t, []string{"docsindex", "doccoverage"}, registry.Names())
	})

	t.Run("should replace a task registered under the same name", func(t *testing.T) {
		t.Parallel()

		// given
		registry := task.NewRegistry()
		first := &testdoubles.SpyTask{TaskName: "docsindex"}
		second := &testdoubles.SpyTask{TaskName: "docsindex", DetectResult: true}
		registry.Register(first)
		registry.Register(second)

		// when / then
		assert.Len(t, registry.All(), 1)
		assert.Same(t, second, registry.Get("docsindex"))
	})
}
