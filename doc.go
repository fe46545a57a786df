/*
Package depot provides the runtime core of a sparse-set Entity-Component-System.

Every component type lives in its own storage behind a Cell, a non-blocking
borrow counter: any number of shared views or a single unique view, and a
conflicting request fails right away with an error instead of waiting.

Core Concepts:

  - Entity: an EntityID, a slot index plus a generation.
  - Storage: the components of one type, keyed by entity.
  - View: a scoped borrow of a storage, released with Release or by the Scope it was taken from.
  - Pack: a layout contract between storages (tight, loose or update).
  - Shiperator: a two-phase iterator, FirstPass finds a candidate and PostProcess commits it.

Basic Usage:

	world := depot.Factory.NewWorld()
	world.Register(
		depot.FactoryNewComponent[Position](),
		depot.FactoryNewComponent[Velocity](),
	)
	depot.TightPack2[Position, Velocity](world)

	world.Run(func(s *depot.Scope) error {
		ents, _ := s.EntitiesMut()
		pos, _ := depot.Write[Position](s)
		vel, _ := depot.Write[Velocity](s)

		e := ents.AddEntity()
		pos.Add(ents, e, Position{}, vel)
		vel.Add(ents, e, Velocity{X: 1}, pos)

		for row := range depot.All(depot.Iterate2(pos, vel)) {
			row.A.X += row.B.X
		}
		return nil
	})

Iterating over a tight pack made of exactly the iterated storages walks dense
slots directly and can be split into chunks. Any other combination matches
entities one at a time, starting from the smallest storage.
*/
package depot
