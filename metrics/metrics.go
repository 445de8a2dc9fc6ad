package metrics

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.suretynet.io/surety/log"
)

// Agent exposes the prometheus metrics endpoint on a router.
type Agent struct {
	Path string
}

// NewAgent mounts the prometheus handler on the given path.
func NewAgent(path string, mux *chi.Mux) *Agent {
	a := &Agent{Path: path}
	mux.Get(path, promhttp.Handler().ServeHTTP)
	log.Infof("prometheus metrics ready at: %s", path)
	return a
}

// Register the provided prometheus collector, ignoring any error returned
// (simply logs a Warn)
func Register(c prometheus.Collector) {
	if err := prometheus.Register(c); err != nil {
		log.Warnf("cannot register metrics: (%s) (%+v)", err, c)
	}
}
