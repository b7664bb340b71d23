package anacrolix

import (
	"sync"
	"time"
)

// rateSampler turns cumulative byte counters into per-second rates between calls
type rateSampler struct {
	lock sync.Mutex

	at         time.Time
	downloaded int64
	uploaded   int64
}

func (r *rateSampler) sample(downloaded, uploaded int64, now time.Time) (float64, float64) {
	r.lock.Lock()
	defer r.lock.Unlock()

	prevAt, prevDownloaded, prevUploaded := r.at, r.downloaded, r.uploaded
	r.at = now
	r.downloaded = downloaded
	r.uploaded = uploaded

	if prevAt.IsZero() {
		return 0, 0
	}

	dt := now.Sub(prevAt).Seconds()
	if dt <= 0 {
		return 0, 0
	}

	deltaDownloaded := downloaded - prevDownloaded
	if deltaDownloaded < 0 {
		deltaDownloaded = 0
	}

	deltaUploaded := uploaded - prevUploaded
	if deltaUploaded < 0 {
		deltaUploaded = 0
	}

	return float64(deltaDownloaded) / dt, float64(deltaUploaded) / dt
}
