// Profiling:
// go build ./profile/iter
// go tool pprof -http=":8000" -nodefraction=0.001 ./iter cpu.pprof

package main

import (
	"github.com/TheBitDrifter/depot"
	"github.com/pkg/profile"
)

type comp1 struct {
	V int64
	W int64
}

type comp2 struct {
	V int64
	W int64
}

type tracked struct {
	V int64
}

func main() {
	rounds := 50
	iters := 1000
	entities := 1000
	p := profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
	run(rounds, iters, entities)
	p.Stop()
}

func run(rounds, iters, numEntities int) {
	for range rounds {
		w := depot.Factory.NewWorld()
		if err := w.Register(
			depot.FactoryNewComponent[comp1](),
			depot.FactoryNewComponent[comp2](),
			depot.FactoryNewComponent[tracked](),
		); err != nil {
			panic(err)
		}
		if err := depot.TightPack2[comp1, comp2](w); err != nil {
			panic(err)
		}
		if err := depot.UpdatePack[tracked](w); err != nil {
			panic(err)
		}

		err := w.Run(func(s *depot.Scope) error {
			ents, err := s.EntitiesMut()
			if err != nil {
				return err
			}
			c1, err := depot.Write[comp1](s)
			if err != nil {
				return err
			}
			c2, err := depot.Write[comp2](s)
			if err != nil {
				return err
			}
			tr, err := depot.Write[tracked](s)
			if err != nil {
				return err
			}
			for i := range numEntities {
				e := ents.AddEntity()
				if err := c1.Add(ents, e, comp1{V: 1}, c2); err != nil {
					return err
				}
				if i%2 == 0 {
					if err := c2.Add(ents, e, comp2{V: 1, W: 1}, c1); err != nil {
						return err
					}
				}
				if err := tr.Add(ents, e, tracked{}); err != nil {
					return err
				}
			}
			tr.ClearInserted()

			for range iters {
				for row := range depot.All(depot.Iterate2(c1, c2)) {
					row.A.V += row.B.V
					row.A.W += row.B.W
				}
				for t := range depot.All(tr.Iter()) {
					t.V++
				}
				tr.ClearModified()
			}
			return nil
		})
		if err != nil {
			panic(err)
		}
	}
}
