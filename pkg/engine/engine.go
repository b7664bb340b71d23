package engine

import (
	"context"

	"github.com/pojntfx/tget/pkg/metrics"
	"github.com/pojntfx/tget/pkg/source"
)

// Config is passed to the engine when opening a session
type Config struct {
	// Storage is the directory that downloaded data is written to and seeded from
	Storage string
	// ListenPort is the port to accept peers on; 0 picks a free one
	ListenPort int
	// Offline opens the session without listeners, trackers or DHT
	Offline bool
	// Verify hashes all local data before the session reports ready
	Verify bool
	// Seed keeps uploading once all pieces are present
	Seed  bool
	Debug bool
}

type Engine interface {
	Open(ctx context.Context, src source.Source, cfg Config) (Session, error)
}

// Session is a live transfer. Only Ready and Close may be used before Ready is closed.
type Session interface {
	// Ready is closed once, when the session's metadata is available
	Ready() <-chan struct{}
	// Err is the error of the work done before Ready, such as verifying local data
	Err() error
	Name() string
	Files() []File
	NumPieces() int
	// HasPiece reports whether the piece is verified and present locally
	HasPiece(index int) bool
	Counters() metrics.Counters
	// Connect dials a peer directly
	Connect(addr string) error
	Close() error
}

type File interface {
	DisplayName() string
	Path() string
	Length() int64
	Selected() bool
	// Select queues the file for transfer; selecting a selected file does nothing
	Select()
}
