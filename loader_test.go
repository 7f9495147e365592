package hypod

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// TestFromFile tests file loading across formats
func TestFromFile(t *testing.T) {
	t.Run("TOML", func(t *testing.T) {
		fx := newTrainFixture(t)
		path := writeTestFile(t, "train.toml", `
steps = 500

[optim]
_tag = "adam"
lr = 0.1
`)

		inst, err := fx.train.FromFile(path)
		require.NoError(t, err)

		steps, _ := inst.Get("steps")
		assert.Equal(t, int64(500), steps)

		rec, err := inst.Record("optim")
		require.NoError(t, err)
		assert.Same(t, fx.adam, rec.Schema())
		lr, _ := rec.Get("lr")
		assert.Equal(t, 0.1, lr)
	})

	t.Run("YAML", func(t *testing.T) {
		fx := newTrainFixture(t)
		path := writeTestFile(t, "train.yaml", `
steps: 500
optim:
  _tag: sgd
  momentum: 0.9
`)

		inst, err := fx.train.FromFile(path)
		require.NoError(t, err)

		rec, err := inst.Record("optim")
		require.NoError(t, err)
		assert.Same(t, fx.sgd, rec.Schema())
		momentum, _ := rec.Get("momentum")
		assert.Equal(t, 0.9, momentum)
	})

	t.Run("JSONPreservesNumbers", func(t *testing.T) {
		fx := newTrainFixture(t)
		path := writeTestFile(t, "train.json", `{
  "steps": 9007199254740993,
  "optim": {"_tag": "adam", "lr": 0.5}
}`)

		inst, err := fx.train.FromFile(path)
		require.NoError(t, err)

		// 2^53+1 survives only because the decoder defers number conversion.
		steps, _ := inst.Get("steps")
		assert.Equal(t, int64(9007199254740993), steps)

		lr, _ := inst.Get("optim.lr")
		assert.Equal(t, 0.5, lr)
	})

	t.Run("ContentSniffing", func(t *testing.T) {
		fx := newTrainFixture(t)
		path := writeTestFile(t, "train.conf", `{"steps": 250}`)

		inst, err := fx.train.FromFile(path)
		require.NoError(t, err)
		steps, _ := inst.Get("steps")
		assert.Equal(t, int64(250), steps)
	})

	t.Run("MissingFile", func(t *testing.T) {
		fx := newTrainFixture(t)

		_, err := fx.train.FromFile(filepath.Join(t.TempDir(), "absent.toml"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrFileNotFound))
	})

	t.Run("MalformedTOML", func(t *testing.T) {
		fx := newTrainFixture(t)
		path := writeTestFile(t, "bad.toml", `steps = = 5`)

		_, err := fx.train.FromFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse TOML")
	})

	t.Run("UnknownFieldInFile", func(t *testing.T) {
		fx := newTrainFixture(t)
		path := writeTestFile(t, "extra.yaml", "warmup: 5\n")

		_, err := fx.train.FromFile(path)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnknownField))
	})
}

// TestFormatDetection tests extension and content based detection
func TestFormatDetection(t *testing.T) {
	t.Run("ByExtension", func(t *testing.T) {
		assert.Equal(t, "toml", detectFileFormat("a/b/config.toml"))
		assert.Equal(t, "toml", detectFileFormat("config.TML"))
		assert.Equal(t, "json", detectFileFormat("config.json"))
		assert.Equal(t, "yaml", detectFileFormat("config.yml"))
		assert.Equal(t, "", detectFileFormat("config.conf"))
		assert.Equal(t, "", detectFileFormat("config"))
	})

	t.Run("ByContent", func(t *testing.T) {
		assert.Equal(t, "json", detectFormatFromContent([]byte(`{"a": 1}`)))
		assert.Equal(t, "yaml", detectFormatFromContent([]byte("a: 1\nb:\n  c: 2\n")))
		assert.Equal(t, "toml", detectFormatFromContent([]byte("[section]\na = { b = 1 }\n")))
	})
}
