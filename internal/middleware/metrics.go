package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis command failures by operation.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "commune_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// InvitationsAccepted counts accepted friend invitations.
	InvitationsAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "commune_invitations_accepted_total",
		Help: "Total number of friend invitations accepted",
	})

	// MessagesSent counts stored direct messages.
	MessagesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "commune_messages_sent_total",
		Help: "Total number of direct messages stored",
	})
)

var (
	promOnce     sync.Once
	promInstance *fiberprometheus.FiberPrometheus
)

// InitMetrics creates the fiberprometheus middleware for the given service
// name. The instance is shared: fiberprometheus registers its collectors in
// the default registry and a second registration would panic.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		promInstance = fiberprometheus.New(serviceName)
	})
	return promInstance
}

// MetricsMiddleware wraps the fiberprometheus handler as a Fiber middleware.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
