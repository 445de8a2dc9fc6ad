package api

import (
	"fmt"
	"net"
	"net/http"
	"time"

	chiprometheus "github.com/766b/chi-prometheus"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.suretynet.io/surety/log"
)

// Router is a thread-safe http multiplexer using go-chi with a set of
// preconfigured options: request logging, panic recovery, compression,
// permissive CORS and per-route prometheus metrics.
type Router struct {
	Mux     *chi.Mux
	address net.Addr
}

// Init configures the middleware stack and starts the http server.
func (r *Router) Init(host string, port int) error {
	ln, err := net.Listen("tcp", net.JoinHostPort(host, fmt.Sprintf("%d", port)))
	if err != nil {
		return err
	}
	r.Mux = chi.NewRouter()
	r.Mux.Use(middleware.RealIP)
	r.Mux.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  stdLogger{},
		NoColor: true,
	}))
	r.Mux.Use(middleware.Recoverer)
	r.Mux.Use(middleware.Heartbeat("/ping"))
	r.Mux.Use(middleware.ThrottleBacklog(5000, 40000, 30*time.Second))
	r.Mux.Use(middleware.Timeout(30 * time.Second))
	r.Mux.Use(middleware.Compress(5))
	r.Mux.Use(chiprometheus.NewMiddleware("surety_http"))

	corsHandler := cors.New(cors.Options{
		AllowOriginFunc: func(r *http.Request, origin string) bool {
			return true
		},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Mux.Use(corsHandler.Handler)
	r.Mux.Options("/*", func(w http.ResponseWriter, r *http.Request) {})

	s := &http.Server{
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       10 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		Handler:           r.Mux,
	}
	go func() {
		log.Fatal(s.Serve(ln))
	}()
	r.address = ln.Addr()
	log.Infof("router ready at http://%s", ln.Addr())
	return nil
}

// Address returns the network address the router listens on.
func (r *Router) Address() net.Addr {
	return r.address
}

type stdLogger struct{}

func (stdLogger) Print(v ...any) { log.Debugf("%s", fmt.Sprint(v...)) }
