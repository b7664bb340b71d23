package metrics

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

const (
	// BarWidth is the number of columns in the progress bar track
	BarWidth = 20

	barStep = 100 / BarWidth

	maxETASeconds = float64(math.MaxInt64 / int64(time.Second))
)

// Peer is a remote connection as seen by the engine
type Peer struct {
	Addr string
	// Choked is true while the peer refuses to send us data
	Choked bool
}

// Counters is a read-only snapshot of a session's live counters
type Counters struct {
	Downloaded   int64
	Uploaded     int64
	DownloadRate float64
	UploadRate   float64
	Length       int64
	Peers        []Peer
}

// Sample is the derived progress of a session at one point in time
type Sample struct {
	Downloaded   int64
	Uploaded     int64
	DownloadRate float64
	UploadRate   float64
	Length       int64
	Remaining    int64
	Percentage   float64
	Bar          string
	ETA          ETA
	Connected    int
	Total        int
	Elapsed      time.Duration
}

type ETAState int

const (
	ETACalculating ETAState = iota
	ETAUnknown
	ETAKnown
)

// ETA is the estimated time until all selected bytes are present
type ETA struct {
	State     ETAState
	Remaining time.Duration
}

func (e ETA) String() string {
	switch e.State {
	case ETAKnown:
		if e.Remaining < time.Second {
			return "estimated less than a second remaining"
		}

		now := time.Now()

		return "estimated " + humanize.RelTime(now, now.Add(e.Remaining), "remaining", "")
	case ETAUnknown:
		return "unknown time remaining"
	default:
		return "calculating"
	}
}

// Compute derives a sample from counters; it holds no state between calls
func Compute(c Counters, start, now time.Time) Sample {
	elapsed := now.Sub(start)
	if elapsed < 0 {
		elapsed = 0
	}

	remaining := c.Length - c.Downloaded
	if remaining < 0 {
		remaining = 0
	}

	percentage := Percentage(c.Downloaded, c.Length)

	return Sample{
		Downloaded:   c.Downloaded,
		Uploaded:     c.Uploaded,
		DownloadRate: c.DownloadRate,
		UploadRate:   c.UploadRate,
		Length:       c.Length,
		Remaining:    remaining,
		Percentage:   percentage,
		Bar:          Bar(percentage),
		ETA:          Estimate(c.Downloaded, remaining, c.DownloadRate, elapsed),
		Connected:    Connected(c.Peers),
		Total:        len(c.Peers),
		Elapsed:      elapsed,
	}
}

// Connected counts the peers that are not choking us
func Connected(peers []Peer) int {
	connected := 0
	for _, p := range peers {
		if !p.Choked {
			connected++
		}
	}

	return connected
}

// Percentage returns downloaded/length in percent, clamped to [0, 100]
func Percentage(downloaded, length int64) float64 {
	if length <= 0 || downloaded <= 0 {
		return 0
	}

	p := (float64(downloaded) / float64(length)) * 100
	if p > 100 {
		return 100
	}

	return p
}

// PercentString formats a percentage with four significant digits, keeping trailing zeros
func PercentString(p float64) string {
	return fmt.Sprintf("%#.4g", p)
}

// Bar renders a fixed-width progress track, one column per five percent
func Bar(p float64) string {
	bars := int(p) / barStep
	if bars < 0 {
		bars = 0
	}
	if bars > BarWidth {
		bars = BarWidth
	}

	return strings.Repeat("=", bars) + strings.Repeat(" ", BarWidth-bars)
}

// Estimate extrapolates the average throughput since start over the remaining bytes
func Estimate(downloaded, remaining int64, rate float64, elapsed time.Duration) ETA {
	if downloaded <= 0 {
		return ETA{State: ETACalculating}
	}

	if rate <= 0 {
		return ETA{State: ETAUnknown}
	}

	seconds := (elapsed.Seconds() * float64(remaining)) / float64(downloaded)
	if seconds > maxETASeconds {
		seconds = maxETASeconds
	}

	return ETA{
		State:     ETAKnown,
		Remaining: time.Duration(seconds) * time.Second,
	}
}
