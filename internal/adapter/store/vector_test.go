package store

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVectorToString(t *testing.T) {
	require.Equal(t, "[]", vectorToString(nil))
	require.Equal(t, "[0.5]", vectorToString([]float32{0.5}))
	require.Equal(t, "[0.1,0.2,0.3]", vectorToString([]float32{0.1, 0.2, 0.3}))
	require.Equal(t, "[-1,0,1]", vectorToString([]float32{-1, 0, 1}))
}
