package depot

import (
	"fmt"
	"io"

	"github.com/VictoriaMetrics/metrics"
)

// worldMetrics counts borrow conflicts and workload runs of one world.
type worldMetrics struct {
	set *metrics.Set
}

func newWorldMetrics() *worldMetrics {
	return &worldMetrics{set: metrics.NewSet()}
}

func (m *worldMetrics) borrowConflict(resource string, borrow Borrow) {
	m.set.GetOrCreateCounter(fmt.Sprintf(`depot_borrow_conflicts_total{resource=%q,borrow=%q}`, resource, borrow.String())).Inc()
}

func (m *worldMetrics) workloadRun(name string, failed bool) {
	m.set.GetOrCreateCounter(fmt.Sprintf(`depot_workload_runs_total{workload=%q}`, name)).Inc()
	if failed {
		m.set.GetOrCreateCounter(fmt.Sprintf(`depot_workload_failures_total{workload=%q}`, name)).Inc()
	}
}

func (m *worldMetrics) conflicts(resource string, borrow Borrow) uint64 {
	return m.set.GetOrCreateCounter(fmt.Sprintf(`depot_borrow_conflicts_total{resource=%q,borrow=%q}`, resource, borrow.String())).Get()
}

// WriteMetrics writes the world's counters in Prometheus text format.
func (w *World) WriteMetrics(out io.Writer) {
	w.metrics.set.WritePrometheus(out)
}

// BorrowConflicts returns how many borrows of resource failed with borrow.
func (w *World) BorrowConflicts(resource string, borrow Borrow) uint64 {
	return w.metrics.conflicts(resource, borrow)
}
