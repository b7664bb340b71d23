package anacrolix

import (
	"context"
	"net"
	"path"
	"sync"
	"time"

	"github.com/anacrolix/torrent"
	"github.com/anacrolix/torrent/storage"
	"github.com/pojntfx/tget/pkg/engine"
	"github.com/pojntfx/tget/pkg/metrics"
	"github.com/rs/zerolog/log"
)

type Session struct {
	client  *torrent.Client
	torrent *torrent.Torrent
	store   storage.ClientImplCloser
	verify  bool

	ctx    context.Context
	cancel context.CancelFunc

	ready     chan struct{}
	readyOnce sync.Once
	// err is written before ready is closed
	err error

	chokes *chokeTracker
	rates  *rateSampler
}

func newSession(c *torrent.Client, t *torrent.Torrent, store storage.ClientImplCloser, chokes *chokeTracker, verify bool) *Session {
	ctx, cancel := context.WithCancel(context.Background())

	return &Session{
		client:  c,
		torrent: t,
		store:   store,
		verify:  verify,

		ctx:    ctx,
		cancel: cancel,

		ready: make(chan struct{}),

		chokes: chokes,
		rates:  &rateSampler{},
	}
}

func (s *Session) watch() {
	select {
	case <-s.torrent.GotInfo():
	case <-s.torrent.Closed():
		return
	}

	if s.verify {
		log.Debug().
			Int("pieces", s.torrent.NumPieces()).
			Msg("Verifying local data")

		if err := s.torrent.VerifyDataContext(s.ctx); err != nil {
			log.Error().
				Err(err).
				Msg("Could not verify local data")

			s.err = err
		}
	}

	s.markReady()
}

func (s *Session) markReady() {
	s.readyOnce.Do(func() {
		close(s.ready)
	})
}

func (s *Session) Ready() <-chan struct{} {
	return s.ready
}

func (s *Session) Err() error {
	select {
	case <-s.ready:
		return s.err
	default:
		return nil
	}
}

func (s *Session) Name() string {
	return s.torrent.Name()
}

func (s *Session) Files() []engine.File {
	files := []engine.File{}
	for _, f := range s.torrent.Files() {
		files = append(files, &File{file: f})
	}

	return files
}

func (s *Session) NumPieces() int {
	return s.torrent.NumPieces()
}

func (s *Session) HasPiece(index int) bool {
	if index < 0 || index >= s.torrent.NumPieces() {
		return false
	}

	return s.torrent.PieceState(index).Complete
}

func (s *Session) Counters() metrics.Counters {
	stats := s.torrent.Stats()
	downloaded := stats.BytesReadUsefulData.Int64()
	uploaded := stats.BytesWrittenData.Int64()

	downloadRate, uploadRate := s.rates.sample(downloaded, uploaded, time.Now())

	length := int64(0)
	for _, f := range s.torrent.Files() {
		if f.Priority() != torrent.PiecePriorityNone {
			length += f.Length()
		}
	}

	peers := []metrics.Peer{}
	for _, pc := range s.torrent.PeerConns() {
		peers = append(peers, metrics.Peer{
			Addr:   pc.RemoteAddr.String(),
			Choked: s.chokes.choked(pc),
		})
	}

	return metrics.Counters{
		Downloaded:   downloaded,
		Uploaded:     uploaded,
		DownloadRate: downloadRate,
		UploadRate:   uploadRate,
		Length:       length,
		Peers:        peers,
	}
}

func (s *Session) Connect(addr string) error {
	a, err := net.ResolveTCPAddr("tcp", addr)
	if err != nil {
		return err
	}

	added := s.torrent.AddPeers([]torrent.PeerInfo{{Addr: a}})

	log.Debug().
		Str("addr", a.String()).
		Int("added", added).
		Msg("Added direct peer")

	return nil
}

func (s *Session) Close() error {
	log.Trace().Msg("Closing session")

	s.cancel()

	s.torrent.Drop()

	for _, err := range s.client.Close() {
		if err != nil {
			return err
		}
	}

	return s.store.Close()
}

type File struct {
	file *torrent.File
}

func (f *File) DisplayName() string {
	return path.Base(f.file.DisplayPath())
}

func (f *File) Path() string {
	return f.file.Path()
}

func (f *File) Length() int64 {
	return f.file.Length()
}

func (f *File) Selected() bool {
	return f.file.Priority() != torrent.PiecePriorityNone
}

func (f *File) Select() {
	if f.Selected() {
		return
	}

	log.Debug().
		Str("path", f.file.Path()).
		Msg("Selecting file")

	f.file.Download()
}
