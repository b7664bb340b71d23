package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"github.com/pojntfx/go-auth-utils/pkg/authn"
	"github.com/pojntfx/go-auth-utils/pkg/authn/basic"
	"github.com/pojntfx/go-auth-utils/pkg/authn/oidc"
	v1 "github.com/pojntfx/tget/pkg/api/http/v1"
	"github.com/pojntfx/tget/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

const (
	namespace = "tget"
)

var (
	json = jsoniter.ConfigCompatibleWithStandardLibrary

	ErrNotOpened = errors.New("could not use status server before it was opened")
)

// Status serves the latest progress sample as JSON and as Prometheus metrics
type Status struct {
	laddr        string
	apiUsername  string
	apiPassword  string
	oidcIssuer   string
	oidcClientID string

	source string
	mode   string

	lock   sync.Mutex
	latest v1.Status

	registry *prometheus.Registry
	gauges   gauges

	listener net.Listener
	srv      *http.Server

	errs chan error

	ctx context.Context
}

type gauges struct {
	downloaded     prometheus.Gauge
	uploaded       prometheus.Gauge
	downloadRate   prometheus.Gauge
	uploadRate     prometheus.Gauge
	length         prometheus.Gauge
	percentage     prometheus.Gauge
	etaSeconds     prometheus.Gauge
	connectedPeers prometheus.Gauge
	totalPeers     prometheus.Gauge
}

func newGauge(name, help string) prometheus.Gauge {
	return prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
	})
}

func (g gauges) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		g.downloaded,
		g.uploaded,
		g.downloadRate,
		g.uploadRate,
		g.length,
		g.percentage,
		g.etaSeconds,
		g.connectedPeers,
		g.totalPeers,
	}
}

func NewStatus(
	laddr string,
	apiUsername string,
	apiPassword string,
	oidcIssuer string,
	oidcClientID string,

	source string,
	mode string,

	ctx context.Context,
) *Status {
	s := &Status{
		laddr:        laddr,
		apiUsername:  apiUsername,
		apiPassword:  apiPassword,
		oidcIssuer:   oidcIssuer,
		oidcClientID: oidcClientID,

		source: source,
		mode:   mode,

		latest: v1.Status{
			Source: source,
			Mode:   mode,
			ETA:    metrics.ETA{}.String(),
		},

		registry: prometheus.NewRegistry(),
		gauges: gauges{
			downloaded:     newGauge("downloaded_bytes", "Useful bytes downloaded in this session."),
			uploaded:       newGauge("uploaded_bytes", "Bytes uploaded in this session."),
			downloadRate:   newGauge("download_rate_bytes", "Current download rate in bytes per second."),
			uploadRate:     newGauge("upload_rate_bytes", "Current upload rate in bytes per second."),
			length:         newGauge("selected_bytes", "Total length of the selected files."),
			percentage:     newGauge("complete_percent", "Percentage of the selected bytes downloaded."),
			etaSeconds:     newGauge("eta_seconds", "Estimated seconds remaining, -1 while unknown."),
			connectedPeers: newGauge("connected_peers", "Peers that are not choking us."),
			totalPeers:     newGauge("peers", "Connected peers."),
		},

		errs: make(chan error),

		ctx: ctx,
	}

	s.registry.MustRegister(s.gauges.collectors()...)
	s.gauges.etaSeconds.Set(-1)

	return s
}

func (s *Status) Open() error {
	log.Trace().Msg("Opening status server")

	var auth authn.Authn
	if strings.TrimSpace(s.oidcIssuer) == "" && strings.TrimSpace(s.oidcClientID) == "" {
		auth = basic.NewAuthn(s.apiUsername, s.apiPassword)
	} else {
		auth = oidc.NewAuthn(s.oidcIssuer, s.oidcClientID)
	}

	if err := auth.Open(s.ctx); err != nil {
		return err
	}

	listener, err := net.Listen("tcp", s.laddr)
	if err != nil {
		return err
	}
	s.listener = listener

	s.srv = &http.Server{Handler: s.Handler(auth)}

	log.Debug().
		Str("address", listener.Addr().String()).
		Msg("Listening")

	go func() {
		if err := s.srv.Serve(listener); err != nil {
			if err == http.ErrServerClosed {
				close(s.errs)

				return
			}

			s.errs <- err

			return
		}
	}()

	return nil
}

// Handler serves /status and /metrics behind auth
func (s *Status) Handler(auth authn.Authn) http.Handler {
	mux := http.NewServeMux()

	metricsHandler := promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})

	mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(auth, w, r) {
			return
		}

		metricsHandler.ServeHTTP(w, r)
	})

	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		if !authorized(auth, w, r) {
			return
		}

		log.Trace().Msg("Getting status")

		w.Header().Set("Content-Type", "application/json")

		enc := json.NewEncoder(w)
		if err := enc.Encode(s.Latest()); err != nil {
			log.Debug().
				Err(err).
				Msg("Could not encode status")
		}
	})

	return mux
}

func authorized(auth authn.Authn, w http.ResponseWriter, r *http.Request) bool {
	u, p, ok := r.BasicAuth()
	if err := auth.Validate(u, p); !ok || err != nil {
		w.Header().Set("WWW-Authenticate", `Basic realm="tget"`)
		http.Error(w, "Unauthorized", http.StatusUnauthorized)

		return false
	}

	return true
}

// Publish records a sample; it is safe to call from the scheduler's render goroutine
func (s *Status) Publish(sample metrics.Sample) {
	eta := float64(-1)
	if sample.ETA.State == metrics.ETAKnown {
		eta = sample.ETA.Remaining.Seconds()
	}

	s.gauges.downloaded.Set(float64(sample.Downloaded))
	s.gauges.uploaded.Set(float64(sample.Uploaded))
	s.gauges.downloadRate.Set(sample.DownloadRate)
	s.gauges.uploadRate.Set(sample.UploadRate)
	s.gauges.length.Set(float64(sample.Length))
	s.gauges.percentage.Set(sample.Percentage)
	s.gauges.etaSeconds.Set(eta)
	s.gauges.connectedPeers.Set(float64(sample.Connected))
	s.gauges.totalPeers.Set(float64(sample.Total))

	s.lock.Lock()
	defer s.lock.Unlock()

	s.latest = v1.Status{
		Source:         s.source,
		Mode:           s.mode,
		Downloaded:     sample.Downloaded,
		Uploaded:       sample.Uploaded,
		DownloadRate:   sample.DownloadRate,
		UploadRate:     sample.UploadRate,
		Length:         sample.Length,
		Percentage:     sample.Percentage,
		ETA:            sample.ETA.String(),
		ConnectedPeers: sample.Connected,
		TotalPeers:     sample.Total,
		Elapsed:        sample.Elapsed.Seconds(),
	}
}

func (s *Status) Latest() v1.Status {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.latest
}

func (s *Status) Addr() string {
	if s.listener == nil {
		return s.laddr
	}

	return s.listener.Addr().String()
}

func (s *Status) Close() error {
	log.Trace().Msg("Closing status server")

	if s.srv == nil {
		return ErrNotOpened
	}

	if err := s.srv.Shutdown(s.ctx); err != nil {
		if err != context.Canceled {
			return err
		}
	}

	return nil
}

func (s *Status) Wait() error {
	for err := range s.errs {
		if err != nil {
			return err
		}
	}

	return nil
}
