package hypod

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseArgv tests token parsing into nested mappings
func TestParseArgv(t *testing.T) {
	t.Run("ValidTokens", func(t *testing.T) {
		tests := []struct {
			name   string
			tokens []string
			want   map[string]any
		}{
			{
				"Flat",
				[]string{"steps=100"},
				map[string]any{"steps": "100"},
			},
			{
				"Nested",
				[]string{"optim.lr=0.1"},
				map[string]any{"optim": map[string]any{"lr": "0.1"}},
			},
			{
				"DeeplyNested",
				[]string{"a.b.c=x"},
				map[string]any{"a": map[string]any{"b": map[string]any{"c": "x"}}},
			},
			{
				"SharedPrefix",
				[]string{"net.layer.size=3", "net.layer.kind=relu"},
				map[string]any{"net": map[string]any{"layer": map[string]any{"size": "3", "kind": "relu"}}},
			},
			{
				"FirstEqualsSplits",
				[]string{"note=a=b"},
				map[string]any{"note": "a=b"},
			},
			{
				"DashAndUnderscoreKeys",
				[]string{"log-level=info", "max_steps=5"},
				map[string]any{"log-level": "info", "max_steps": "5"},
			},
			{
				"TagThenRefinement",
				[]string{"optim=adam", "optim.lr=0.1"},
				map[string]any{"optim": map[string]any{TagKey: "adam", "lr": "0.1"}},
			},
			{
				"RefinementThenTag",
				[]string{"optim.lr=0.1", "optim=adam"},
				map[string]any{"optim": map[string]any{TagKey: "adam", "lr": "0.1"}},
			},
			{
				"ScalarThenDeeper",
				[]string{"a=1", "a.b=2"},
				map[string]any{"a": map[string]any{TagKey: "1", "b": "2"}},
			},
			{
				"LaterValueWins",
				[]string{"steps=1", "steps=2"},
				map[string]any{"steps": "2"},
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got, err := ParseArgv(tt.tokens)
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			})
		}
	})

	t.Run("MalformedTokens", func(t *testing.T) {
		bad := []string{
			"steps",      // no separator
			"=5",         // empty key
			"steps=",     // empty value
			"a b=c",      // space in segment
			".a=1",       // empty leading segment
			"a..b=1",     // empty middle segment
			"wei rd.k=v", // space again, nested
		}
		for _, tok := range bad {
			_, err := ParseArgv([]string{tok})
			require.Error(t, err, "token %q", tok)
			assert.True(t, errors.Is(err, ErrArgvFormat), "token %q", tok)
			assert.Contains(t, err.Error(), tok)
		}
	})

	t.Run("ValuesStayStrings", func(t *testing.T) {
		got, err := ParseArgv([]string{"steps=100", "flag=true"})
		require.NoError(t, err)
		assert.Equal(t, "100", got["steps"])
		assert.Equal(t, "true", got["flag"])
	})
}

// TestFromArgv tests end-to-end construction from tokens
func TestFromArgv(t *testing.T) {
	t.Run("TagAndRefinement", func(t *testing.T) {
		fx := newTrainFixture(t)

		inst, err := fx.train.FromArgv([]string{
			"optim=sgd",
			"optim.momentum=0.9",
			"steps=500",
		})
		require.NoError(t, err)

		rec, err := inst.Record("optim")
		require.NoError(t, err)
		assert.Same(t, fx.sgd, rec.Schema())

		momentum, _ := rec.Get("momentum")
		assert.Equal(t, 0.9, momentum)
		steps, _ := inst.Get("steps")
		assert.Equal(t, int64(500), steps)
	})

	t.Run("OrderIndependentTagging", func(t *testing.T) {
		fx := newTrainFixture(t)

		a, err := fx.train.FromArgv([]string{"optim=sgd", "optim.momentum=0.9"})
		require.NoError(t, err)
		b, err := fx.train.FromArgv([]string{"optim.momentum=0.9", "optim=sgd"})
		require.NoError(t, err)

		assert.True(t, a.Equal(b))
	})

	t.Run("BadToken", func(t *testing.T) {
		fx := newTrainFixture(t)

		_, err := fx.train.FromArgv([]string{"steps"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrArgvFormat))
	})

	t.Run("UnknownKeyRejected", func(t *testing.T) {
		fx := newTrainFixture(t)

		_, err := fx.train.FromArgv([]string{"warmup=5"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnknownField))
	})
}
