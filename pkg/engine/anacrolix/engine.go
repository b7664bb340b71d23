package anacrolix

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/anacrolix/torrent"
	"github.com/anacrolix/torrent/metainfo"
	"github.com/anacrolix/torrent/storage"
	"github.com/phayes/freeport"
	"github.com/pojntfx/tget/pkg/engine"
	"github.com/pojntfx/tget/pkg/source"
	"github.com/rs/zerolog/log"
)

var (
	ErrEmptySource = errors.New("could not work with empty source")
)

// Engine opens sessions backed by an anacrolix torrent client, one client per session
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

func (e *Engine) Open(ctx context.Context, src source.Source, cfg engine.Config) (engine.Session, error) {
	log.Trace().
		Str("source", src.String()).
		Str("storage", cfg.Storage).
		Bool("offline", cfg.Offline).
		Msg("Opening session")

	if !src.IsMagnet() && len(src.Torrent) == 0 {
		return nil, ErrEmptySource
	}

	var mi *metainfo.MetaInfo
	if !src.IsMagnet() {
		var err error
		mi, err = metainfo.Load(bytes.NewReader(src.Torrent))
		if err != nil {
			return nil, fmt.Errorf("could not parse descriptor: %w", err)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	chokes := newChokeTracker()

	clientConfig, err := newClientConfig(cfg, chokes)
	if err != nil {
		return nil, err
	}

	store := storage.NewFile(cfg.Storage)
	clientConfig.DefaultStorage = store

	c, err := torrent.NewClient(clientConfig)
	if err != nil {
		_ = store.Close()

		return nil, err
	}

	var t *torrent.Torrent
	if src.IsMagnet() {
		t, err = c.AddMagnet(src.Magnet)
	} else {
		t, err = c.AddTorrent(mi)
	}
	if err != nil {
		c.Close()
		_ = store.Close()

		return nil, err
	}

	s := newSession(c, t, store, chokes, cfg.Verify)
	go s.watch()

	log.Debug().
		Str("infohash", t.InfoHash().HexString()).
		Int("port", clientConfig.ListenPort).
		Msg("Opened session")

	return s, nil
}

func newClientConfig(cfg engine.Config, chokes *chokeTracker) (*torrent.ClientConfig, error) {
	clientConfig := torrent.NewDefaultClientConfig()
	clientConfig.Debug = cfg.Debug
	clientConfig.DataDir = cfg.Storage
	clientConfig.Seed = cfg.Seed

	clientConfig.Callbacks.ReadMessage = chokes.message
	clientConfig.Callbacks.PeerConnClosed = chokes.closed

	if cfg.Offline {
		clientConfig.DisableTCP = true
		clientConfig.DisableUTP = true
		clientConfig.NoDHT = true
		clientConfig.DisablePEX = true
		clientConfig.DisableTrackers = true
		clientConfig.NoDefaultPortForwarding = true

		return clientConfig, nil
	}

	port := cfg.ListenPort
	if port == 0 {
		p, err := freeport.GetFreePort()
		if err != nil {
			return nil, err
		}

		port = p
	}
	clientConfig.ListenPort = port

	return clientConfig, nil
}
