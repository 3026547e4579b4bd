package metrics

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)

	SSEConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sse_connections",
		Help: "Number of open notification streams",
	})

	NotificationPushes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_pushes_total",
			Help: "Live notification push attempts by result",
		},
		[]string{"result"},
	)

	ActivityLogsDeleted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "activity_logs_deleted_total",
		Help: "Activity log rows removed by retention",
	})
)

func Register(reg prometheus.Registerer) {
	reg.MustRegister(HTTPRequestsTotal, SSEConnections, NotificationPushes, ActivityLogsDeleted)
}

// Middleware counts requests by route pattern, method and status.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}

		HTTPRequestsTotal.WithLabelValues(path, r.Method, strconv.Itoa(ww.Status())).Inc()
	})
}
