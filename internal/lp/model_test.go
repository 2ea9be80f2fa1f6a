package lp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModelWriteFile(t *testing.T) {
	t.Run("writes the full rendered model in one replace", func(t *testing.T) {
		// Arrange
		input, result := singlePlacementFixture()
		model := NewEmitter(nil, nil).Emit(input, result)
		path := filepath.Join(t.TempDir(), "schedule.lp")

		// Act
		err := model.WriteFile(path)

		// Assert
		assert.Nil(t, err)
		written, err := os.ReadFile(path)
		assert.Nil(t, err)
		assert.Equal(t, model.Render(), string(written))

		// No temporary leftovers next to the artifact
		entries, err := os.ReadDir(filepath.Dir(path))
		assert.Nil(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("artifact is world-readable like the other outputs", func(t *testing.T) {
		// Arrange
		input, result := singlePlacementFixture()
		model := NewEmitter(nil, nil).Emit(input, result)
		path := filepath.Join(t.TempDir(), "schedule.lp")

		// Act
		assert.Nil(t, model.WriteFile(path))

		// Assert
		info, err := os.Stat(path)
		assert.Nil(t, err)
		assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
	})

	t.Run("overwrites a previous artifact atomically", func(t *testing.T) {
		// Arrange
		input, result := singlePlacementFixture()
		model := NewEmitter(nil, nil).Emit(input, result)
		path := filepath.Join(t.TempDir(), "schedule.lp")
		assert.Nil(t, os.WriteFile(path, []byte("stale"), 0o644))

		// Act
		err := model.WriteFile(path)

		// Assert
		assert.Nil(t, err)
		written, _ := os.ReadFile(path)
		assert.Equal(t, model.Render(), string(written))
	})
}
