package server

import (
	"net"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestListenWithFallback(t *testing.T) {
	t.Parallel()

	// Grab an ephemeral port, keep it bound, and ask for it as preferred.
	occupied, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer occupied.Close()

	preferred := occupied.Addr().(*net.TCPAddr).Port

	t.Run("falls back when preferred port is bound", func(t *testing.T) {
		ln, port, err := listenWithFallback(preferred, 10)
		require.NoError(t, err)
		defer ln.Close()

		require.Greater(t, port, preferred)
		require.LessOrEqual(t, port, preferred+9)
		require.Equal(t, port, ln.Addr().(*net.TCPAddr).Port)
	})

	t.Run("single attempt fails on bound port", func(t *testing.T) {
		_, _, err := listenWithFallback(preferred, 1)
		require.ErrorIs(t, err, ErrNoFreePort)
	})

	t.Run("binds preferred port when free", func(t *testing.T) {
		free, err := net.Listen("tcp", ":0")
		require.NoError(t, err)
		freePort := free.Addr().(*net.TCPAddr).Port
		require.NoError(t, free.Close())

		ln, port, err := listenWithFallback(freePort, 3)
		require.NoError(t, err)
		defer ln.Close()
		require.Equal(t, freePort, port)
	})
}
