package anacrolix

import (
	"testing"

	"github.com/anacrolix/torrent"
	pp "github.com/anacrolix/torrent/peer_protocol"
	"github.com/stretchr/testify/assert"
)

func TestChokeTrackerDefaultsToChoked(t *testing.T) {
	assert.True(t, newChokeTracker().choked(&torrent.PeerConn{}))
}

func TestChokeTrackerFollowsMessages(t *testing.T) {
	c := newChokeTracker()
	a, b := &torrent.PeerConn{}, &torrent.PeerConn{}

	c.message(a, &pp.Message{Type: pp.Unchoke})
	assert.False(t, c.choked(a))
	assert.True(t, c.choked(b))

	c.message(a, &pp.Message{Type: pp.Have, Index: 1})
	assert.False(t, c.choked(a))

	c.message(a, &pp.Message{Type: pp.Choke})
	assert.True(t, c.choked(a))

	c.message(a, &pp.Message{Type: pp.Unchoke})
	assert.False(t, c.choked(a))
}

func TestChokeTrackerIgnoresKeepalives(t *testing.T) {
	c := newChokeTracker()
	pc := &torrent.PeerConn{}

	c.message(pc, &pp.Message{Type: pp.Unchoke})
	c.message(pc, &pp.Message{Keepalive: true})
	c.message(pc, nil)

	assert.False(t, c.choked(pc))
}

func TestChokeTrackerForgetsClosedConns(t *testing.T) {
	c := newChokeTracker()
	pc := &torrent.PeerConn{}

	c.message(pc, &pp.Message{Type: pp.Unchoke})
	c.closed(pc)

	assert.True(t, c.choked(pc))
	assert.Empty(t, c.unchoked)
}
