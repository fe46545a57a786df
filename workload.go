package depot

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

type pipeline struct {
	workloads map[string][]System
	def       string
}

func newPipeline() *pipeline {
	return &pipeline{workloads: make(map[string][]System)}
}

// AddWorkload stores systems under name, replacing any workload with the
// same name. The first workload added becomes the default.
func (w *World) AddWorkload(name string, systems ...System) error {
	ref, err := w.pipeline.Unique()
	if err != nil {
		w.conflict("Pipeline", BorrowUnique)
		return err
	}
	defer ref.Release()
	p := ref.Get()
	if p.def == "" {
		p.def = name
	}
	p.workloads[name] = append([]System(nil), systems...)
	w.logger.Debug("workload added",
		zap.String("workload", name),
		zap.Int("systems", len(systems)),
	)
	return nil
}

func (w *World) SetDefaultWorkload(name string) error {
	ref, err := w.pipeline.Unique()
	if err != nil {
		w.conflict("Pipeline", BorrowUnique)
		return SetDefaultWorkloadError{Kind: WorkloadBorrow, Borrow: BorrowUnique}
	}
	defer ref.Release()
	p := ref.Get()
	if _, ok := p.workloads[name]; !ok {
		return SetDefaultWorkloadError{Kind: MissingWorkload, Name: name}
	}
	p.def = name
	return nil
}

// RunWorkload runs the systems of name in order. The first failing system
// stops the workload.
func (w *World) RunWorkload(name string) error {
	ref, err := w.pipeline.Shared()
	if err != nil {
		w.conflict("Pipeline", BorrowShared)
		return RunWorkloadError{Kind: WorkloadBorrow, Name: name, Borrow: BorrowShared}
	}
	defer ref.Release()
	systems, ok := ref.Get().workloads[name]
	if !ok {
		return RunWorkloadError{Kind: MissingWorkload, Name: name}
	}
	return w.runSystems(name, systems)
}

func (w *World) RunDefault() error {
	ref, err := w.pipeline.Shared()
	if err != nil {
		w.conflict("Pipeline", BorrowShared)
		return RunWorkloadError{Kind: WorkloadBorrow, Borrow: BorrowShared}
	}
	defer ref.Release()
	p := ref.Get()
	if p.def == "" {
		return RunWorkloadError{Kind: MissingWorkload}
	}
	return w.runSystems(p.def, p.workloads[p.def])
}

func (w *World) runSystems(name string, systems []System) error {
	start := time.Now()
	for i, sys := range systems {
		if err := w.Run(sys); err != nil {
			w.metrics.workloadRun(name, true)
			w.logger.Info("workload failed",
				zap.String("workload", name),
				zap.Int("system", i),
				zap.Error(err),
			)
			return fmt.Errorf("workload %q, system %d: %w", name, i, err)
		}
	}
	w.metrics.workloadRun(name, false)
	w.logger.Info("workload ran",
		zap.String("workload", name),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}
