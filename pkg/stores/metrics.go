package stores

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Package-level Prometheus metrics. Registered once on the default
// registerer; hosts expose them through promhttp (see pkg/live).
//
// triggersLive is the observability hook for the known growth behavior of
// trigger maps: paths that stop being observed are not pruned, so a
// long-lived store with heavy path churn shows up as a monotonically
// rising gauge here.
var (
	triggersLive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "reflow",
		Subsystem: "stores",
		Name:      "triggers_live",
		Help:      "Number of live path triggers across all stores",
	})

	writesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "reflow",
		Subsystem: "stores",
		Name:      "writes_total",
		Help:      "Total number of notifying store writes released",
	})

	patchedPaths = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "reflow",
		Subsystem: "stores",
		Name:      "patched_paths_total",
		Help:      "Total number of changed paths detected by patch application",
	})
)
