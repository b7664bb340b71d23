package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/pojntfx/tget/pkg/engine"
	"github.com/pojntfx/tget/pkg/metrics"
	"github.com/pojntfx/tget/pkg/source"
)

type fakeFile struct {
	name     string
	length   int64
	selected bool
	selects  int
}

func (f *fakeFile) DisplayName() string { return f.name }
func (f *fakeFile) Path() string        { return f.name }
func (f *fakeFile) Length() int64       { return f.length }
func (f *fakeFile) Selected() bool      { return f.selected }

func (f *fakeFile) Select() {
	f.selects++
	f.selected = true
}

type fakeSession struct {
	ready    chan struct{}
	files    []*fakeFile
	pieces   []bool
	counters metrics.Counters
	err      error

	lock      sync.Mutex
	connected []string
	closed    bool
	// events records the order in which the controller touched the session
	events []string
}

func newFakeSession(files []*fakeFile, pieces []bool) *fakeSession {
	ready := make(chan struct{})
	close(ready)

	return &fakeSession{ready: ready, files: files, pieces: pieces}
}

func (s *fakeSession) record(event string) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.events = append(s.events, event)
}

func (s *fakeSession) Ready() <-chan struct{} { return s.ready }
func (s *fakeSession) Err() error             { return s.err }
func (s *fakeSession) Name() string           { return "fake" }

func (s *fakeSession) Files() []engine.File {
	s.record("files")

	files := []engine.File{}
	for _, f := range s.files {
		files = append(files, f)
	}

	return files
}

func (s *fakeSession) NumPieces() int { return len(s.pieces) }

func (s *fakeSession) HasPiece(i int) bool { return s.pieces[i] }

func (s *fakeSession) Counters() metrics.Counters {
	s.record("counters")

	length := int64(0)
	for _, f := range s.files {
		if f.selected {
			length += f.length
		}
	}

	c := s.counters
	c.Length = length

	return c
}

func (s *fakeSession) Connect(addr string) error {
	s.record("connect")

	s.lock.Lock()
	defer s.lock.Unlock()

	if addr == "invalid" {
		return fmt.Errorf("could not resolve %v", addr)
	}

	s.connected = append(s.connected, addr)

	return nil
}

func (s *fakeSession) Close() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.closed = true

	return nil
}

type fakeEngine struct {
	sessions []*fakeSession
	configs  []engine.Config
	err      error
}

func (e *fakeEngine) Open(ctx context.Context, src source.Source, cfg engine.Config) (engine.Session, error) {
	if e.err != nil {
		return nil, e.err
	}

	if len(e.configs) >= len(e.sessions) {
		return nil, fmt.Errorf("unexpected session %v", len(e.configs))
	}

	s := e.sessions[len(e.configs)]
	e.configs = append(e.configs, cfg)

	return s, nil
}

type fakePresenter struct {
	lock sync.Mutex

	messages  []string
	files     int
	downloads []metrics.Sample
	seeds     []metrics.Sample

	// onSample is called after every recorded download or seed sample
	onSample func()
}

func (p *fakePresenter) Message(format string, args ...any) {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.messages = append(p.messages, fmt.Sprintf(format, args...))
}

func (p *fakePresenter) Files(files []engine.File) {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.files = len(files)
}

func (p *fakePresenter) Download(sample metrics.Sample) {
	p.lock.Lock()
	p.downloads = append(p.downloads, sample)
	p.lock.Unlock()

	if p.onSample != nil {
		p.onSample()
	}
}

func (p *fakePresenter) Seed(name string, sample metrics.Sample) {
	p.lock.Lock()
	p.seeds = append(p.seeds, sample)
	p.lock.Unlock()

	if p.onSample != nil {
		p.onSample()
	}
}
