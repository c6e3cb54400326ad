package live

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "reflow",
		Subsystem: "live",
		Name:      "sessions_active",
		Help:      "Number of connected live sessions",
	})

	framesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "reflow",
		Subsystem: "live",
		Name:      "frames_total",
		Help:      "Frames processed, by direction and type",
	}, []string{"direction", "type"})
)
