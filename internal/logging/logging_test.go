package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewModes(t *testing.T) {
	for _, mode := range []string{"", "debug", "release", "Quiet"} {
		l, err := New(mode)
		require.NoError(t, err, mode)
		require.NotNil(t, l, mode)
	}
	l, err := New("quiet")
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(-1))
}

func TestNewUnknownMode(t *testing.T) {
	_, err := New("verbose")
	assert.Error(t, err)
}
