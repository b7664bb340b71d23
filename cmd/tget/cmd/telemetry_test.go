package cmd

import (
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/phayes/freeport"
	"github.com/pojntfx/tget/pkg/session"
	"github.com/pojntfx/tget/pkg/source"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statusAddr(t *testing.T) string {
	t.Helper()

	port, err := freeport.GetFreePort()
	require.NoError(t, err)

	addr := net.JoinHostPort("127.0.0.1", strconv.Itoa(port))

	viper.Set(statusLaddrFlag, addr)
	viper.Set(apiUsernameFlag, "admin")
	viper.Set(apiPasswordFlag, "secret")
	t.Cleanup(viper.Reset)

	return addr
}

func listening(addr string) bool {
	conn, err := net.DialTimeout("tcp", addr, time.Second)
	if err != nil {
		return false
	}
	_ = conn.Close()

	return true
}

var seedSource = source.Source{Torrent: []byte("d")}

func TestWithStatusDoesNotListenBeforeOpen(t *testing.T) {
	addr := statusAddr(t)

	err := withStatus(context.Background(), seedSource, modeSeed, func(ctx context.Context, open func() error, observers ...observer) error {
		assert.Len(t, observers, 1)
		assert.False(t, listening(addr))

		return session.ErrMissingFiles
	})

	assert.ErrorIs(t, err, session.ErrMissingFiles)
	assert.False(t, listening(addr))
}

func TestWithStatusListensAfterOpen(t *testing.T) {
	addr := statusAddr(t)

	err := withStatus(context.Background(), seedSource, modeSeed, func(ctx context.Context, open func() error, observers ...observer) error {
		require.NoError(t, open())
		require.NoError(t, open())

		assert.True(t, listening(addr))

		return nil
	})

	require.NoError(t, err)
	assert.False(t, listening(addr))
}

func TestWithStatusDisabled(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set(statusLaddrFlag, "")

	called := false
	err := withStatus(context.Background(), seedSource, modeDownload, func(ctx context.Context, open func() error, observers ...observer) error {
		called = true

		assert.Empty(t, observers)

		return open()
	})

	require.NoError(t, err)
	assert.True(t, called)
}

func TestWithStatusRequiresPassword(t *testing.T) {
	statusAddr(t)
	viper.Set(apiPasswordFlag, "")

	err := withStatus(context.Background(), seedSource, modeSeed, func(ctx context.Context, open func() error, observers ...observer) error {
		t.Fatal("ran without a password")

		return nil
	})

	assert.ErrorIs(t, err, errMissingAPIPassword)
}
