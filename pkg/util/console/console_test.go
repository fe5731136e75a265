package console

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConsoleLevels(t *testing.T) {
	var out, errOut bytes.Buffer
	c := New(&out, &errOut)
	c.Level = WarnLevel

	c.Info("hidden")
	c.Warnf("shown %d", 1)
	c.Errorf("line one\nline two")
	c.Output("primary")

	require.Equal(t, "shown 1\nline one\nline two\n", errOut.String())
	require.Equal(t, "primary\n", out.String())
}

func TestParseLevel(t *testing.T) {
	for _, tt := range []struct {
		input string
		level Level
		err   error
	}{
		{"debug", DebugLevel, nil},
		{"WARNING", WarnLevel, nil},
		{" error ", ErrorLevel, nil},
		{"loud", InvalidLevel, ErrInvalidLevel},
	} {
		level, err := ParseLevel(tt.input)
		require.Equal(t, tt.level, level, tt.input)
		require.ErrorIs(t, err, tt.err)
	}
	require.Equal(t, "invalid", InvalidLevel.String())
}
