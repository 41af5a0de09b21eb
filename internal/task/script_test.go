package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScript_RequiresTwoEntries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		entries []string
		wantErr bool
	}{
		{name: "empty", entries: nil, wantErr: true},
		{name: "single entry", entries: []string{"wait"}, wantErr: true},
		{name: "two entries", entries: []string{"wait", "give up"}, wantErr: false},
		{name: "three entries", entries: []string{"a", "b", "c"}, wantErr: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			script, err := NewScript(tc.entries)
			if tc.wantErr {
				assert.Error(t, err)
				assert.Nil(t, script)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, script)
			}
		})
	}
}

func TestScript_Walk(t *testing.T) {
	t.Parallel()

	script, err := NewScript([]string{"A", "B", "C", "D"})
	require.NoError(t, err)

	assert.Equal(t, "A", script.First())

	msg, terminal := script.Next()
	assert.Equal(t, "B", msg)
	assert.False(t, terminal)

	msg, terminal = script.Next()
	assert.Equal(t, "C", msg)
	assert.False(t, terminal)

	msg, terminal = script.Next()
	assert.Equal(t, "D", msg)
	assert.True(t, terminal)
}

// A script of length 2 waits once and then gives up: the terminal entry is
// not skippable.
func TestScript_MinimumLengthGivesUpImmediately(t *testing.T) {
	t.Parallel()

	script, err := NewScript([]string{"hold on", "giving up"})
	require.NoError(t, err)

	assert.Equal(t, "hold on", script.First())

	msg, terminal := script.Next()
	assert.Equal(t, "giving up", msg)
	assert.True(t, terminal)
}

func TestScript_CopiesEntries(t *testing.T) {
	t.Parallel()

	entries := []string{"A", "B"}
	script, err := NewScript(entries)
	require.NoError(t, err)

	entries[0] = "mutated"
	assert.Equal(t, "A", script.First())
}
