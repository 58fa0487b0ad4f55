package observability

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

const namespace = "reservation"

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace, Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	ClientRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "client_requests_total", Help: "API client requests."},
		[]string{"endpoint", "status"},
	)
	ClientLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace, Name: "client_request_duration_seconds",
			Help:    "API client request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)
	ClientErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "client_network_errors_total", Help: "API client calls that got no response."},
		[]string{"endpoint", "err"},
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "cache_events_total", Help: "Cache hits/misses/sets/dels."},
		[]string{"cache", "event"}, // event: hit|miss|set|del
	)
	BookingEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "booking_events_total", Help: "Account, booking and payment events."},
		[]string{"kind", "event"}, // kind: user|hotel|restaurant
	)
)

// Serve exposes the default registry on its own listener. Empty addr disables it.
func Serve(addr string, reg *prometheus.Registry) {
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", MetricsHandler(reg))

	go func() {
		srv := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		log.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
}

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, ClientRequests, ClientLatency, ClientErrors, CacheEvents, BookingEvents)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

// ObserveClient records one API client call; status 0 means no response.
func ObserveClient(endpoint string, status int, dur time.Duration) {
	ClientRequests.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	ClientLatency.WithLabelValues(endpoint).Observe(dur.Seconds())
}

func ObserveCache(cache, event string) { // event: hit|miss|set|del
	CacheEvents.WithLabelValues(cache, event).Inc()
}

func ObserveBooking(kind, event string) {
	BookingEvents.WithLabelValues(kind, event).Inc()
}

// ObserveClientError counts a call that never got a response, labelled by cause.
func ObserveClientError(endpoint string, err error) {
	ClientErrors.WithLabelValues(endpoint, LabelErr(err)).Inc()
}

// LabelErr names the error's type. The *url.Error wrapper every http.Client
// failure carries is skipped so the label shows the underlying cause.
func LabelErr(err error) string {
	if err == nil {
		return "none"
	}
	var ue *url.Error
	if errors.As(err, &ue) && ue.Err != nil {
		err = ue.Err
	}
	return fmt.Sprintf("%T", err)
}
