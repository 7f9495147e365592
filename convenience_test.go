package hypod

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGetterFixture(t *testing.T) *Instance {
	t.Helper()
	s := NewSchema("Mixed").
		Field("name", String(), Default("run1")).
		Field("steps", Int(), Default(int64(500))).
		Field("lr", Float(), Default(0.25)).
		Field("debug", Bool(), Default(true)).
		Field("raw", Any(), NoParse()).
		MustBuild()
	return s.MustNew(map[string]any{"raw": "0x10"})
}

// TestTypedGetters tests path getters with conversion
func TestTypedGetters(t *testing.T) {
	inst := newGetterFixture(t)

	t.Run("String", func(t *testing.T) {
		v, err := inst.String("name")
		require.NoError(t, err)
		assert.Equal(t, "run1", v)

		// Conversions from stored non-string values.
		v, err = inst.String("steps")
		require.NoError(t, err)
		assert.Equal(t, "500", v)

		v, err = inst.String("debug")
		require.NoError(t, err)
		assert.Equal(t, "true", v)

		_, err = inst.String("absent")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no value at path")
	})

	t.Run("Int64", func(t *testing.T) {
		v, err := inst.Int64("steps")
		require.NoError(t, err)
		assert.Equal(t, int64(500), v)

		// Float truncates, bool maps to 0/1, strings parse with base
		// detection.
		v, err = inst.Int64("lr")
		require.NoError(t, err)
		assert.Equal(t, int64(0), v)

		v, err = inst.Int64("debug")
		require.NoError(t, err)
		assert.Equal(t, int64(1), v)

		v, err = inst.Int64("raw")
		require.NoError(t, err)
		assert.Equal(t, int64(16), v)

		_, err = inst.Int64("name")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot convert")
	})

	t.Run("Float64", func(t *testing.T) {
		v, err := inst.Float64("lr")
		require.NoError(t, err)
		assert.Equal(t, 0.25, v)

		v, err = inst.Float64("steps")
		require.NoError(t, err)
		assert.Equal(t, 500.0, v)

		v, err = inst.Float64("debug")
		require.NoError(t, err)
		assert.Equal(t, 1.0, v)

		_, err = inst.Float64("name")
		require.Error(t, err)
	})

	t.Run("Bool", func(t *testing.T) {
		v, err := inst.Bool("debug")
		require.NoError(t, err)
		assert.True(t, v)

		v, err = inst.Bool("steps")
		require.NoError(t, err)
		assert.True(t, v, "non-zero int is true")

		v, err = inst.Bool("lr")
		require.NoError(t, err)
		assert.True(t, v)

		_, err = inst.Bool("name")
		require.Error(t, err)
	})

	t.Run("NestedPath", func(t *testing.T) {
		fx := newTrainFixture(t)
		nested, err := fx.train.New(map[string]any{
			"optim": map[string]any{TagKey: "adam", "lr": 0.1},
		})
		require.NoError(t, err)

		lr, err := nested.Float64("optim.lr")
		require.NoError(t, err)
		assert.Equal(t, 0.1, lr)

		beta1, err := nested.String("optim.beta1")
		require.NoError(t, err)
		assert.Equal(t, "0.9", beta1)
	})
}
