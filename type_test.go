package hypod

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTypeCheck tests structural checks and value normalization per kind
func TestTypeCheck(t *testing.T) {
	t.Run("Bool", func(t *testing.T) {
		v, err := Bool().check(true)
		require.NoError(t, err)
		assert.Equal(t, true, v)

		_, err = Bool().check(1)
		assert.True(t, errors.Is(err, ErrTypeMismatch))
	})

	t.Run("IntNormalization", func(t *testing.T) {
		tests := []struct {
			name  string
			input any
			want  int64
		}{
			{"Int", int(5), 5},
			{"Int32", int32(-9), -9},
			{"Int64", int64(7), 7},
			{"Uint16", uint16(12), 12},
			{"Uint64Small", uint64(99), 99},
			{"JSONNumber", json.Number("42"), 42},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				v, err := Int().check(tt.input)
				require.NoError(t, err)
				assert.Equal(t, tt.want, v)
			})
		}
	})

	t.Run("IntRejects", func(t *testing.T) {
		rejected := []any{"5", 2.5, true, uint64(math.MaxUint64), json.Number("4.5")}
		for _, input := range rejected {
			_, err := Int().check(input)
			assert.True(t, errors.Is(err, ErrTypeMismatch), "input %v (%T)", input, input)
		}
	})

	t.Run("FloatWidening", func(t *testing.T) {
		tests := []struct {
			name  string
			input any
			want  float64
		}{
			{"Float64", 2.5, 2.5},
			{"Float32", float32(0.5), 0.5},
			{"Int", 4, 4.0},
			{"Int64", int64(-3), -3.0},
			{"Uint32", uint32(8), 8.0},
			{"JSONNumber", json.Number("2.5"), 2.5},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				v, err := Float().check(tt.input)
				require.NoError(t, err)
				assert.Equal(t, tt.want, v)
			})
		}

		_, err := Float().check("2.5")
		assert.True(t, errors.Is(err, ErrTypeMismatch))
	})

	t.Run("StringStrict", func(t *testing.T) {
		v, err := String().check("x")
		require.NoError(t, err)
		assert.Equal(t, "x", v)

		// json.Number has string as its underlying type but is not a string value.
		_, err = String().check(json.Number("5"))
		assert.True(t, errors.Is(err, ErrTypeMismatch))
	})

	t.Run("List", func(t *testing.T) {
		v, err := ListOf(Int()).check([]any{1, int64(2), uint8(3)})
		require.NoError(t, err)
		assert.Equal(t, []any{int64(1), int64(2), int64(3)}, v)

		// Typed slices pass through reflection.
		v, err = ListOf(Int()).check([]int{4, 5})
		require.NoError(t, err)
		assert.Equal(t, []any{int64(4), int64(5)}, v)

		_, err = ListOf(Int()).check([]any{1, "two"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrTypeMismatch))
		assert.Contains(t, err.Error(), "element 1")

		_, err = ListOf(Int()).check("not a list")
		assert.True(t, errors.Is(err, ErrTypeMismatch))
	})

	t.Run("Mapping", func(t *testing.T) {
		m := map[string]any{"a": 1}
		v, err := Mapping().check(m)
		require.NoError(t, err)
		assert.Equal(t, m, v)

		_, err = Mapping().check(map[string]int{"a": 1})
		assert.True(t, errors.Is(err, ErrTypeMismatch))
	})

	t.Run("RecordAcceptsDerived", func(t *testing.T) {
		base := NewSchema("Optim").Field("lr", Float(), Default(0.1)).MustBuild()
		adam := base.Derive("Adam").Tag("adam").MustBuild()
		other := NewSchema("Data").MustBuild()

		inst := adam.MustNew(nil)
		v, err := Object(base).check(inst)
		require.NoError(t, err)
		assert.Same(t, inst, v)

		_, err = Object(other).check(inst)
		assert.True(t, errors.Is(err, ErrTypeMismatch))
	})

	t.Run("UnionDeclarationOrder", func(t *testing.T) {
		// Both members accept an int; the first declared wins.
		v, err := Union(Int(), Float()).check(5)
		require.NoError(t, err)
		assert.Equal(t, int64(5), v)

		v, err = Union(Float(), Int()).check(5)
		require.NoError(t, err)
		assert.Equal(t, 5.0, v)
	})

	t.Run("Any", func(t *testing.T) {
		v, err := Any().check(struct{ X int }{1})
		require.NoError(t, err)
		assert.Equal(t, struct{ X int }{1}, v)
	})
}

// TestTypeString tests diagnostic rendering
func TestTypeString(t *testing.T) {
	data := NewSchema("Data").MustBuild()

	assert.Equal(t, "int", Int().String())
	assert.Equal(t, "list(float)", ListOf(Float()).String())
	assert.Equal(t, "record<Data>", Object(data).String())
	assert.Equal(t, "union(record<Data>, mapping)", Union(Object(data), Mapping()).String())
}

// TestUnionFlattening tests that nested unions collapse into one member list
func TestUnionFlattening(t *testing.T) {
	u := Union(Int(), Union(Float(), String()))
	require.Equal(t, KindUnion, u.Kind())
	assert.Len(t, u.Members(), 3)
}
