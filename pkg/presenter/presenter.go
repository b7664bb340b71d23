package presenter

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pojntfx/tget/pkg/engine"
	"github.com/pojntfx/tget/pkg/metrics"
)

const scale = "0%    25   50   75   100%"

// Presenter writes one-shot messages to stdout and status blocks to its output strategy
type Presenter struct {
	stdout io.Writer
	status Output
}

func NewPresenter(stdout io.Writer, status Output) *Presenter {
	return &Presenter{
		stdout: stdout,
		status: status,
	}
}

func (p *Presenter) Message(format string, args ...any) {
	fmt.Fprintf(p.stdout, format+"\n", args...)
}

func (p *Presenter) Files(files []engine.File) {
	noun := "files"
	if len(files) == 1 {
		noun = "file"
	}

	fmt.Fprintf(p.stdout, "\n%v %v in torrent\n", len(files), noun)

	for _, f := range files {
		marker := " "
		if f.Selected() {
			marker = "*"
		}

		fmt.Fprintf(p.stdout, "%v %v %v\n", marker, Colorize(f.DisplayName()), humanize.Bytes(uint64(f.Length())))
	}

	fmt.Fprintln(p.stdout)
}

func (p *Presenter) Download(sample metrics.Sample) {
	p.status.Render(DownloadBlock(sample), sample)
}

func (p *Presenter) Seed(name string, sample metrics.Sample) {
	p.status.Render(SeedBlock(name, sample), sample)
}

func DownloadBlock(s metrics.Sample) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Connected to %v/%v peers\n", s.Connected, s.Total)
	fmt.Fprintf(&b, "Downloaded %v (%v/s)\n", humanBytes(s.Downloaded), humanRate(s.DownloadRate))
	fmt.Fprintf(&b, "Uploaded %v (%v/s)\n", humanBytes(s.Uploaded), humanRate(s.UploadRate))
	fmt.Fprintf(&b, "Torrent Size %v\n\n", humanBytes(s.Length))
	fmt.Fprintf(&b, "Complete: %v%%\n", metrics.PercentString(s.Percentage))
	fmt.Fprintf(&b, "[%v]\n", s.Bar)
	fmt.Fprintf(&b, "%v\n\n", scale)
	fmt.Fprintf(&b, "%v\n", s.ETA)

	return b.String()
}

func SeedBlock(name string, s metrics.Sample) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Seeding %v\n", name)
	fmt.Fprintf(&b, "Connected to %v/%v peers\n", s.Connected, s.Total)
	fmt.Fprintf(&b, "Uploaded %v (%v/s)\n", humanBytes(s.Uploaded), humanRate(s.UploadRate))

	return b.String()
}

func humanBytes(n int64) string {
	if n < 0 {
		n = 0
	}

	return humanize.Bytes(uint64(n))
}

func humanRate(r float64) string {
	if r < 0 {
		r = 0
	}

	return humanize.Bytes(uint64(r))
}
