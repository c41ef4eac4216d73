package hazptr

import "github.com/VictoriaMetrics/metrics"

// Process-wide reclamation counters, exposed in Prometheus format
// through metrics.WritePrometheus.
var (
	retiredTotal   = metrics.GetOrCreateCounter("hazptr_retired_total")
	reclaimedTotal = metrics.GetOrCreateCounter("hazptr_reclaimed_total")
	scansTotal     = metrics.GetOrCreateCounter("hazptr_scans_total")
	helpScansTotal = metrics.GetOrCreateCounter("hazptr_help_scans_total")
	retireStalls   = metrics.GetOrCreateCounter("hazptr_retire_stalls_total")
)
