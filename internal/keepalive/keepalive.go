package keepalive

import (
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

// DefaultInterval matches the upstream hosting platform's idle timeout window.
const DefaultInterval = 14 * time.Minute

// Pinger periodically issues a GET against the configured URL so free-tier
// hosts do not spin the service down. Failures are logged and never affect
// request handling.
type Pinger struct {
	url      string
	interval time.Duration
	http     *resty.Client
	stop     chan struct{}
}

// New creates a pinger for the given URL.
func New(url string, interval time.Duration) *Pinger {
	return &Pinger{
		url:      url,
		interval: interval,
		http:     resty.New(),
		stop:     make(chan struct{}),
	}
}

// Start launches the ping loop in its own goroutine.
func (p *Pinger) Start() {
	go p.loop()
}

// Stop terminates the ping loop.
func (p *Pinger) Stop() {
	close(p.stop)
}

func (p *Pinger) loop() {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			p.ping()
		case <-p.stop:
			return
		}
	}
}

func (p *Pinger) ping() {
	resp, err := p.http.R().Get(p.url)
	if err != nil {
		log.Error().Err(err).Msg("keep-alive ping failed")
		return
	}
	if resp.StatusCode() != http.StatusOK {
		log.Warn().Int("status", resp.StatusCode()).Msg("keep-alive ping returned non-200")
		return
	}
	log.Debug().Msg("keep-alive ping ok")
}
