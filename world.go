package depot

import (
	"go.uber.org/zap"
)

// World owns the storage registry and the workload pipeline, each behind its
// own Cell.
type World struct {
	all      *Cell[*AllStorages]
	pipeline *Cell[*pipeline]
	logger   *zap.Logger
	metrics  *worldMetrics
}

func newWorld(opts ...WorldOption) *World {
	w := &World{
		logger:  Config.logger,
		metrics: newWorldMetrics(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.all = newCell(newAllStorages(w.logger))
	w.pipeline = newCell(newPipeline())
	return w
}

// Register declares storages. The whole batch runs under one unique borrow
// of the registry, so concurrent registrations never interleave.
func (w *World) Register(regs ...Registration) error {
	ref, err := w.all.Unique()
	if err != nil {
		w.conflict("AllStorages", BorrowUnique)
		return GetStorageError{Kind: AllStoragesBorrow, Borrow: BorrowUnique}
	}
	defer ref.Release()
	for _, reg := range regs {
		if err := reg.register(ref.Get()); err != nil {
			return err
		}
	}
	return nil
}

// AddEntity creates an entity without components.
func (w *World) AddEntity() (EntityID, error) {
	allRef, err := w.all.Shared()
	if err != nil {
		w.conflict("AllStorages", BorrowShared)
		return Dead, NewEntityError{Kind: NewEntityAllStoragesBorrow, Borrow: BorrowShared}
	}
	defer allRef.Release()
	ref, err := allRef.Get().entities.Unique()
	if err != nil {
		w.conflict("Entities", BorrowUnique)
		return Dead, NewEntityError{Kind: NewEntityEntitiesBorrow, Borrow: BorrowUnique}
	}
	defer ref.Release()
	return ref.Get().add(), nil
}

func (w *World) Entities() (*EntitiesView, error) {
	ref, _, err := w.borrowEntities(false)
	if err != nil {
		return nil, err
	}
	return &EntitiesView{ents: ref.Get(), ref: ref}, nil
}

func (w *World) EntitiesMut() (*EntitiesViewMut, error) {
	_, ref, err := w.borrowEntities(true)
	if err != nil {
		return nil, err
	}
	return &EntitiesViewMut{ents: ref.Get(), ref: ref}, nil
}

// AllStoragesMut borrows the whole registry uniquely. While it lives no other
// view can be resolved.
func (w *World) AllStoragesMut() (*AllStoragesViewMut, error) {
	ref, err := w.all.Unique()
	if err != nil {
		w.conflict("AllStorages", BorrowUnique)
		return nil, GetStorageError{Kind: AllStoragesBorrow, Borrow: BorrowUnique}
	}
	return &AllStoragesViewMut{all: ref.Get(), ref: ref, world: w}, nil
}

// Run invokes fn with a fresh Scope. Every view taken through the scope is
// released when fn returns or panics.
func (w *World) Run(fn func(s *Scope) error) error {
	s := &Scope{world: w}
	defer s.release()
	return fn(s)
}

func (w *World) conflict(resource string, borrow Borrow) {
	w.metrics.borrowConflict(resource, borrow)
	w.logger.Debug("borrow conflict",
		zap.String("resource", resource),
		zap.Stringer("borrow", borrow),
	)
}
