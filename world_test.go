package depot

import (
	"bytes"
	"errors"
	"testing"

	"github.com/TheBitDrifter/mask"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/sync/errgroup"
)

type Position struct {
	X float64
	Y float64
}

type Velocity struct {
	X float64
	Y float64
}

type Health struct {
	Value int
}

type Gravity struct {
	G float64
}

func newTestWorld(t *testing.T, regs ...Registration) *World {
	t.Helper()
	w := Factory.NewWorld()
	require.NoError(t, w.Register(regs...))
	return w
}

func standardWorld(t *testing.T) *World {
	return newTestWorld(t,
		FactoryNewComponent[Position](),
		FactoryNewComponent[Velocity](),
		FactoryNewComponent[Health](),
		FactoryNewUnique(Gravity{G: 9.8}),
	)
}

func storageState[T any](t *testing.T, w *World) BorrowState {
	t.Helper()
	ref, err := w.all.Shared()
	require.NoError(t, err)
	defer ref.Release()
	entry, ok := ref.Get().storages[typeOf[T]()]
	require.True(t, ok)
	return entry.cell.State()
}

func TestRegisterIsIdempotent(t *testing.T) {
	w := standardWorld(t)
	ref, err := w.all.Shared()
	require.NoError(t, err)
	first := ref.Get().storages[typeOf[Position]()].cell
	ref.Release()

	require.NoError(t, w.Register(FactoryNewComponent[Position]()))

	ref, err = w.all.Shared()
	require.NoError(t, err)
	defer ref.Release()
	assert.Same(t, first, ref.Get().storages[typeOf[Position]()].cell)
	assert.Len(t, ref.Get().storages, 4)
}

func storageBit[T any](t *testing.T, w *World) uint32 {
	t.Helper()
	ref, err := w.all.Shared()
	require.NoError(t, err)
	defer ref.Release()
	entry, ok := ref.Get().storages[typeOf[T]()]
	require.True(t, ok)
	set, err := entry.cell.Shared()
	require.NoError(t, err)
	defer set.Release()
	return set.Get().(componentStorage).info().bit
}

func TestStorageBitsArePerWorld(t *testing.T) {
	var w *World
	for range 2 * mask.MaxBits {
		w = standardWorld(t)
	}
	assert.Equal(t, uint32(0), storageBit[Position](t, w))
	assert.Equal(t, uint32(1), storageBit[Velocity](t, w))
	assert.Equal(t, uint32(2), storageBit[Health](t, w))

	require.NoError(t, TightPack2[Position, Velocity](w))
	ids := populate(t, w)

	pos, err := GetViewMut[Position](w)
	require.NoError(t, err)
	defer pos.Release()
	vel, err := GetViewMut[Velocity](w)
	require.NoError(t, err)
	defer vel.Release()

	g := pos.set.pack.group
	require.NotNil(t, g)
	assert.Equal(t, 2, g.len)
	assert.Equal(t, []EntityID{ids[0], ids[2]}, pos.IDs()[:g.len])
	assertTight(t, g, pos.set, vel.set)
}

func TestStorageLimit(t *testing.T) {
	w := standardWorld(t)
	ref, err := w.all.Unique()
	require.NoError(t, err)
	ref.Get().nextBit = mask.MaxBits
	ref.Release()

	err = w.Register(FactoryNewComponent[string]())
	assert.Equal(t, GetStorageError{Kind: StorageLimit, Name: "string"}, err)
	assert.NotEmpty(t, err.Error())

	_, err = GetView[string](w)
	var gse GetStorageError
	require.True(t, errors.As(err, &gse))
	assert.Equal(t, MissingComponent, gse.Kind)

	require.NoError(t, w.Register(FactoryNewComponent[Position]()))
}

func TestRegisterUniqueKeepsValue(t *testing.T) {
	w := standardWorld(t)

	require.NoError(t, w.Register(FactoryNewUnique(Gravity{G: 1})))
	g, err := GetUniqueView[Gravity](w)
	require.NoError(t, err)
	assert.Equal(t, Gravity{G: 9.8}, g.Get())

	require.NoError(t, w.Register(FactoryNewUnique(Gravity{G: 2})))
	assert.Equal(t, Gravity{G: 9.8}, g.Get())
	g.Release()

	g, err = GetUniqueView[Gravity](w)
	require.NoError(t, err)
	defer g.Release()
	assert.Equal(t, Gravity{G: 9.8}, g.Get())
}

func TestGetStorageErrors(t *testing.T) {
	w := standardWorld(t)

	tests := []struct {
		name string
		get  func() error
		kind GetStorageKind
	}{
		{
			name: "missing component",
			get: func() error {
				_, err := GetView[string](w)
				return err
			},
			kind: MissingComponent,
		},
		{
			name: "missing unique",
			get: func() error {
				_, err := GetUniqueView[string](w)
				return err
			},
			kind: MissingUnique,
		},
		{
			name: "unique storage as component",
			get: func() error {
				_, err := GetViewMut[Gravity](w)
				return err
			},
			kind: IsUnique,
		},
		{
			name: "component storage as unique",
			get: func() error {
				_, err := GetUniqueView[Position](w)
				return err
			},
			kind: NonUnique,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gse GetStorageError
			err := tt.get()
			require.True(t, errors.As(err, &gse))
			assert.Equal(t, tt.kind, gse.Kind)
			assert.NotEmpty(t, gse.Error())
			assert.False(t, errors.Is(err, BorrowShared))
			assert.False(t, errors.Is(err, BorrowUnique))
		})
	}
}

func TestUniqueViewConflictThenRelease(t *testing.T) {
	w := standardWorld(t)

	mut, err := GetViewMut[Position](w)
	require.NoError(t, err)

	_, err = GetView[Position](w)
	var gse GetStorageError
	require.True(t, errors.As(err, &gse))
	assert.Equal(t, StorageBorrow, gse.Kind)
	assert.Equal(t, BorrowShared, gse.Borrow)
	assert.ErrorIs(t, err, BorrowShared)

	_, err = GetViewMut[Position](w)
	assert.ErrorIs(t, err, BorrowUnique)

	other, err := GetView[Velocity](w)
	require.NoError(t, err)
	other.Release()

	mut.Release()
	view, err := GetView[Position](w)
	require.NoError(t, err)
	view.Release()

	assert.Equal(t, uint64(1), w.BorrowConflicts("depot.Position", BorrowShared))
	assert.Equal(t, uint64(1), w.BorrowConflicts("depot.Position", BorrowUnique))
	var buf bytes.Buffer
	w.WriteMetrics(&buf)
	assert.Contains(t, buf.String(), `depot_borrow_conflicts_total{resource="depot.Position",borrow="shared"} 1`)
}

func TestConcurrentReadersOfDifferentStorages(t *testing.T) {
	w := standardWorld(t)

	var g errgroup.Group
	for i := range 16 {
		g.Go(func() error {
			for range 200 {
				if i%2 == 0 {
					v, err := GetView[Position](w)
					if err != nil {
						return err
					}
					v.Release()
					continue
				}
				v, err := GetView[Velocity](w)
				if err != nil {
					return err
				}
				v.Release()
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.True(t, storageState[Position](t, w).Free())
	assert.True(t, storageState[Velocity](t, w).Free())
}

func TestRegisterConflictsWithAllStoragesMut(t *testing.T) {
	w := standardWorld(t)
	all, err := w.AllStoragesMut()
	require.NoError(t, err)

	err = w.Register(FactoryNewComponent[string]())
	assert.Equal(t, GetStorageError{Kind: AllStoragesBorrow, Borrow: BorrowUnique}, err)

	_, err = GetView[Position](w)
	assert.Equal(t, GetStorageError{Kind: AllStoragesBorrow, Borrow: BorrowShared}, err)

	_, err = w.AddEntity()
	assert.Equal(t, NewEntityError{Kind: NewEntityAllStoragesBorrow, Borrow: BorrowShared}, err)

	require.NoError(t, all.Register(FactoryNewComponent[string]()))
	all.Release()

	v, err := GetView[string](w)
	require.NoError(t, err)
	v.Release()
}

func TestAddEntityConflictsWithEntitiesView(t *testing.T) {
	w := standardWorld(t)
	ents, err := w.Entities()
	require.NoError(t, err)

	_, err = w.AddEntity()
	var nee NewEntityError
	require.True(t, errors.As(err, &nee))
	assert.Equal(t, NewEntityEntitiesBorrow, nee.Kind)
	assert.ErrorIs(t, err, BorrowUnique)

	_, err = w.EntitiesMut()
	assert.Equal(t, GetStorageError{Kind: EntitiesBorrow, Borrow: BorrowUnique}, err)
	ents.Release()

	id, err := w.AddEntity()
	require.NoError(t, err)
	ents, err = w.Entities()
	require.NoError(t, err)
	defer ents.Release()
	assert.True(t, ents.IsAlive(id))
	assert.Equal(t, 1, ents.Len())
}

func TestScopeReleasesEveryBorrow(t *testing.T) {
	w := standardWorld(t)

	err := w.Run(func(s *Scope) error {
		_, err := Write[Position](s)
		require.NoError(t, err)
		_, err = Read[Velocity](s)
		require.NoError(t, err)
		_, err = s.EntitiesMut()
		require.NoError(t, err)
		_, err = Read[Position](s)
		return err
	})
	assert.ErrorIs(t, err, BorrowShared)
	assert.True(t, storageState[Position](t, w).Free())
	assert.True(t, storageState[Velocity](t, w).Free())

	assert.Panics(t, func() {
		_ = w.Run(func(s *Scope) error {
			_, _ = Write[Position](s)
			panic("system failed")
		})
	})
	assert.True(t, storageState[Position](t, w).Free())

	ents, err := w.EntitiesMut()
	require.NoError(t, err)
	ents.Release()
}

func TestUniqueViews(t *testing.T) {
	w := standardWorld(t)

	err := w.Run(func(s *Scope) error {
		g, err := WriteUnique[Gravity](s)
		if err != nil {
			return err
		}
		g.Get().G = 1.6
		_, err = ReadUnique[Gravity](s)
		return err
	})
	assert.ErrorIs(t, err, BorrowShared)

	g, err := GetUniqueView[Gravity](w)
	require.NoError(t, err)
	defer g.Release()
	assert.Equal(t, Gravity{G: 1.6}, g.Get())
}

func TestAddToDeadEntity(t *testing.T) {
	w := standardWorld(t)
	err := w.Run(func(s *Scope) error {
		ents, err := s.EntitiesMut()
		require.NoError(t, err)
		pos, err := Write[Position](s)
		require.NoError(t, err)

		id := ents.AddEntity()
		require.NoError(t, pos.Add(ents, id, Position{X: 1}))
		return pos.Add(ents, newEntityID(id.Index(), id.Gen()+1), Position{})
	})
	assert.Equal(t, AddComponentError{Kind: EntityIsNotAlive}, err)
}

func TestDeleteEntity(t *testing.T) {
	w := standardWorld(t)
	require.NoError(t, TightPack2[Position, Velocity](w))
	require.NoError(t, UpdatePack[Health](w))

	var ids []EntityID
	err := w.Run(func(s *Scope) error {
		ents, _ := s.EntitiesMut()
		pos, _ := Write[Position](s)
		vel, _ := Write[Velocity](s)
		hp, _ := Write[Health](s)
		for i := range 3 {
			id := ents.AddEntity()
			ids = append(ids, id)
			require.NoError(t, pos.Add(ents, id, Position{X: float64(i)}, vel))
			require.NoError(t, vel.Add(ents, id, Velocity{X: float64(i)}, pos))
			require.NoError(t, hp.Add(ents, id, Health{Value: i}))
		}
		return nil
	})
	require.NoError(t, err)

	view, err := GetView[Health](w)
	require.NoError(t, err)
	all, err := w.AllStoragesMut()
	require.NoError(t, err)
	_, err = all.DeleteEntity(ids[0])
	assert.Equal(t, GetStorageError{Kind: StorageBorrow, Name: "depot.Health", Borrow: BorrowUnique}, err)
	view.Release()

	ok, err := all.DeleteEntity(ids[0])
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = all.DeleteEntity(ids[0])
	require.NoError(t, err)
	assert.False(t, ok)
	all.Release()

	pos, err := GetViewMut[Position](w)
	require.NoError(t, err)
	defer pos.Release()
	vel, err := GetViewMut[Velocity](w)
	require.NoError(t, err)
	defer vel.Release()
	hp, err := GetViewMut[Health](w)
	require.NoError(t, err)
	defer hp.Release()

	assert.False(t, pos.Contains(ids[0]))
	assert.False(t, vel.Contains(ids[0]))
	assert.Equal(t, []EntityID{ids[0]}, hp.TakeRemoved())
	assert.Equal(t, 2, pos.set.pack.group.len)
	assertTight(t, pos.set.pack.group, pos.set, vel.set)
}

func TestWorldLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	w := Factory.NewWorld(WithLogger(zap.New(core)))
	require.NoError(t, w.Register(FactoryNewComponent[Position]()))
	require.NoError(t, UpdatePack[Position](w))

	v, err := GetViewMut[Position](w)
	require.NoError(t, err)
	_, err = GetView[Position](w)
	require.Error(t, err)
	v.Release()

	assert.Equal(t, 1, logs.FilterMessage("storage registered").Len())
	assert.Equal(t, 1, logs.FilterMessage("update pack created").Len())
	conflicts := logs.FilterMessage("borrow conflict").All()
	require.Len(t, conflicts, 1)
	assert.Equal(t, "depot.Position", conflicts[0].ContextMap()["resource"])
}
