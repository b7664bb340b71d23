package presenter

import (
	"bytes"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/pojntfx/tget/pkg/metrics"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	eraseLine = "\x1b[1A\x1b[2K"

	logInterval = 5 * time.Second
)

// Output is the strategy a presenter renders status blocks with
type Output interface {
	Render(block string, sample metrics.Sample)
}

// NewOutput picks the terminal strategy for TTYs, structured logs otherwise,
// and no output at all when quiet.
func NewOutput(w io.Writer, quiet bool) Output {
	if quiet {
		return Discard{}
	}

	if f, ok := w.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return NewTerminal(w)
	}

	return NewLog(logInterval)
}

type Discard struct{}

func (Discard) Render(string, metrics.Sample) {}

// Terminal overwrites the previously rendered block in place
type Terminal struct {
	w     io.Writer
	lines int
}

func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{w: w}
}

func (t *Terminal) Render(block string, _ metrics.Sample) {
	if !strings.HasSuffix(block, "\n") {
		block += "\n"
	}

	var buf bytes.Buffer
	buf.WriteString(strings.Repeat(eraseLine, t.lines))
	buf.WriteString(block)

	if _, err := t.w.Write(buf.Bytes()); err != nil {
		log.Trace().
			Err(err).
			Msg("Could not render status")

		return
	}

	t.lines = strings.Count(block, "\n")
}

// Log emits samples as structured log events, at most one per interval
type Log struct {
	limiter *rate.Limiter
}

func NewLog(interval time.Duration) *Log {
	return &Log{
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}
}

func (l *Log) Render(_ string, sample metrics.Sample) {
	if !l.limiter.Allow() {
		return
	}

	log.Info().
		Int64("downloaded", sample.Downloaded).
		Int64("uploaded", sample.Uploaded).
		Float64("downloadRate", sample.DownloadRate).
		Float64("uploadRate", sample.UploadRate).
		Int64("length", sample.Length).
		Str("complete", metrics.PercentString(sample.Percentage)).
		Str("eta", sample.ETA.String()).
		Int("connected", sample.Connected).
		Int("peers", sample.Total).
		Msg("Progress")
}
