package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	// Act
	cfg, err := Load("")

	// Assert
	assert.Nil(t, err)
	assert.Equal(t, int64(1), cfg.TheoreticalLabel)
	assert.Equal(t, 15, cfg.PeriodsPerDay)
	assert.Equal(t, "08:30", cfg.DayStart)
	assert.Equal(t, "18:30", cfg.DayEnd)
	assert.Equal(t, []int64{24, 25}, cfg.OverlapExemptUnits)
	assert.Equal(t, int64(1), cfg.Labels["TT"])
	assert.Equal(t, int64(5), cfg.Labels["D"])

	exclusions, err := cfg.ExclusionTable()
	assert.Nil(t, err)
	assert.ElementsMatch(t, []int64{13, 14, 15}, exclusions[11])
	assert.Equal(t, []int64{3}, exclusions[5])
}

func TestLoadFile(t *testing.T) {
	t.Run("file values override the defaults", func(t *testing.T) {
		// Arrange
		path := filepath.Join(t.TempDir(), "horarios.yaml")
		content := `log:
  level: debug
  format: json
theoreticalLabel: 2
periodsPerDay: 10
exclusions:
  "7": [9]
  "9": [7]
`
		assert.Nil(t, os.WriteFile(path, []byte(content), 0o644))

		// Act
		cfg, err := Load(path)

		// Assert
		assert.Nil(t, err)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, int64(2), cfg.TheoreticalLabel)
		assert.Equal(t, 10, cfg.PeriodsPerDay)

		exclusions, err := cfg.ExclusionTable()
		assert.Nil(t, err)
		assert.Equal(t, []int64{9}, exclusions[7])
	})

	t.Run("label overrides survive viper's key folding", func(t *testing.T) {
		// Arrange: viper lower-cases map keys read from a file, so TT
		// arrives as "tt" before Load folds it back.
		path := filepath.Join(t.TempDir(), "horarios.yaml")
		content := "labels:\n  TT: 9\n  A: 2\n"
		assert.Nil(t, os.WriteFile(path, []byte(content), 0o644))

		// Act
		cfg, err := Load(path)

		// Assert
		assert.Nil(t, err)
		assert.Equal(t, int64(9), cfg.Labels["TT"])
		assert.Equal(t, int64(2), cfg.Labels["A"])
	})

	t.Run("a non-numeric exclusion key is rejected", func(t *testing.T) {
		// Arrange
		path := filepath.Join(t.TempDir(), "horarios.yaml")
		content := "exclusions:\n  algebra: [9]\n"
		assert.Nil(t, os.WriteFile(path, []byte(content), 0o644))

		// Act
		_, err := Load(path)

		// Assert
		assert.ErrorContains(t, err, "algebra")
	})

	t.Run("a missing file is an error", func(t *testing.T) {
		// Act
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))

		// Assert
		assert.NotNil(t, err)
	})
}
