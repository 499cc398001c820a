package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ActiveRelaySockets is the gauge of open chat relay client connections.
	ActiveRelaySockets = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tourdiary_relay_sockets_active",
		Help: "Number of active chat relay WebSocket connections",
	})

	// RelayFrames counts frames forwarded through the chat relay by type.
	RelayFrames = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tourdiary_relay_frames_total",
		Help: "Total chat relay frames forwarded by frame type",
	}, []string{"type"})

	// RedisErrors counts Redis errors by operation.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tourdiary_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})
)

var (
	promOnce sync.Once
	prom     *fiberprometheus.FiberPrometheus
)

// InitMetrics creates the Prometheus HTTP middleware for the given service
// name. The collectors register against the default registry, so the instance
// is created once and reused on subsequent calls.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		prom = fiberprometheus.New(serviceName)
	})
	return prom
}

// MetricsMiddleware returns the request-instrumentation handler.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
