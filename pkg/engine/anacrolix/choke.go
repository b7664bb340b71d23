package anacrolix

import (
	"sync"

	"github.com/anacrolix/torrent"
	pp "github.com/anacrolix/torrent/peer_protocol"
)

// chokeTracker follows the choke messages peers send us. Peers start out
// choking until they send an unchoke.
type chokeTracker struct {
	lock     sync.Mutex
	unchoked map[*torrent.PeerConn]bool
}

func newChokeTracker() *chokeTracker {
	return &chokeTracker{
		unchoked: map[*torrent.PeerConn]bool{},
	}
}

func (c *chokeTracker) message(pc *torrent.PeerConn, msg *pp.Message) {
	if msg == nil || msg.Keepalive {
		return
	}

	switch msg.Type {
	case pp.Choke:
		c.lock.Lock()
		delete(c.unchoked, pc)
		c.lock.Unlock()
	case pp.Unchoke:
		c.lock.Lock()
		c.unchoked[pc] = true
		c.lock.Unlock()
	}
}

func (c *chokeTracker) closed(pc *torrent.PeerConn) {
	c.lock.Lock()
	defer c.lock.Unlock()

	delete(c.unchoked, pc)
}

func (c *chokeTracker) choked(pc *torrent.PeerConn) bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	return !c.unchoked[pc]
}
