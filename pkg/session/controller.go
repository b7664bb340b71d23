package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pojntfx/tget/pkg/engine"
	"github.com/pojntfx/tget/pkg/metrics"
	"github.com/pojntfx/tget/pkg/source"
	"github.com/rs/zerolog/log"
)

var (
	ErrMissingFiles = errors.New("missing files")
)

// Presenter renders what the controller reports to the user
type Presenter interface {
	Message(format string, args ...any)
	Files(files []engine.File)
	Download(sample metrics.Sample)
	Seed(name string, sample metrics.Sample)
}

type Controller struct {
	engine    engine.Engine
	config    engine.Config
	selection Selection
	peer      string

	presenter Presenter
	observers []func(metrics.Sample)
	verified  []func() error

	now func() time.Time
}

func NewController(
	engine engine.Engine,
	config engine.Config,
	selection Selection,
	peer string,

	presenter Presenter,
	observers ...func(metrics.Sample),
) *Controller {
	return &Controller{
		engine:    engine,
		config:    config,
		selection: selection,
		peer:      peer,

		presenter: presenter,
		observers: observers,

		now: time.Now,
	}
}

// OnVerified registers a hook that Seed runs after local data passed
// verification and before anything starts listening. An error aborts Seed.
func (c *Controller) OnVerified(hook func() error) {
	c.verified = append(c.verified, hook)
}

// Download opens a session for src and reports its progress until ctx is done.
// Once the session is ready the direct peer is dialed and the selection is
// applied, both before the first sample is taken.
func (c *Controller) Download(ctx context.Context, src source.Source) error {
	s, err := c.engine.Open(ctx, src, c.config)
	if err != nil {
		return err
	}
	defer c.close(s)

	if !waitReady(ctx, s) {
		return nil
	}

	log.Debug().
		Str("name", s.Name()).
		Msg("Session ready")

	if c.peer != "" {
		c.presenter.Message("connecting to peer %v", c.peer)

		if err := s.Connect(c.peer); err != nil {
			return err
		}
	}

	files := s.Files()
	if matched := c.selection.Apply(files); matched == 0 && !c.selection.All() {
		log.Warn().
			Str("name", c.selection.Name()).
			Int("files", len(files)).
			Msg("No file matched selection")
	}

	c.presenter.Files(files)

	return c.report(ctx, s, metrics.DownloadInterval, c.presenter.Download)
}

// Seed verifies the local data for src without opening any listener and, if
// every piece is present, seeds it and reports uploads until ctx is done.
func (c *Controller) Seed(ctx context.Context, src source.Source) error {
	verifyConfig := c.config
	verifyConfig.Offline = true
	verifyConfig.Verify = true

	v, err := c.engine.Open(ctx, src, verifyConfig)
	if err != nil {
		return err
	}

	if !waitReady(ctx, v) {
		c.close(v)

		return nil
	}

	if err := v.Err(); err != nil {
		c.close(v)

		return fmt.Errorf("could not verify local data: %w", err)
	}

	pieces := v.NumPieces()
	complete := Complete(pieces, v.HasPiece)
	if !complete {
		log.Error().
			Int("pieces", pieces).
			Int("missing", Missing(pieces, v.HasPiece)).
			Msg("Local data is incomplete")
	}

	if err := v.Close(); err != nil {
		return err
	}

	if !complete {
		return ErrMissingFiles
	}

	c.presenter.Message("Verified files successfully!")

	for _, hook := range c.verified {
		if err := hook(); err != nil {
			return err
		}
	}

	seedConfig := c.config
	seedConfig.Seed = true

	s, err := c.engine.Open(ctx, src, seedConfig)
	if err != nil {
		return err
	}
	defer c.close(s)

	if !waitReady(ctx, s) {
		return nil
	}

	name := src.String()

	return c.report(ctx, s, metrics.SeedInterval, func(sample metrics.Sample) {
		c.presenter.Seed(name, sample)
	})
}

func (c *Controller) report(ctx context.Context, s engine.Session, interval time.Duration, render func(metrics.Sample)) error {
	scheduler := metrics.NewScheduler(interval)
	scheduler.Now = c.now

	return scheduler.Run(ctx, c.now(), s.Counters, func(sample metrics.Sample) {
		render(sample)

		for _, observe := range c.observers {
			observe(sample)
		}
	})
}

func (c *Controller) close(s engine.Session) {
	if err := s.Close(); err != nil {
		log.Debug().
			Err(err).
			Msg("Could not close session")
	}
}

func waitReady(ctx context.Context, s engine.Session) bool {
	select {
	case <-ctx.Done():
		return false
	case <-s.Ready():
		return true
	}
}
