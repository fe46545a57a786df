package depot

// Scope tracks the views of one system invocation and releases them together.
type Scope struct {
	world    *World
	releases []func()
}

func (s *Scope) track(release func()) {
	s.releases = append(s.releases, release)
}

func (s *Scope) release() {
	for i := len(s.releases) - 1; i >= 0; i-- {
		s.releases[i]()
	}
	s.releases = nil
}

// World returns the world the scope borrows from.
func (s *Scope) World() *World {
	return s.world
}

// Read borrows T's storage shared for the rest of the invocation.
func Read[T any](s *Scope) (*View[T], error) {
	v, err := GetView[T](s.world)
	if err != nil {
		return nil, err
	}
	s.track(v.Release)
	return v, nil
}

// Write borrows T's storage uniquely for the rest of the invocation.
func Write[T any](s *Scope) (*ViewMut[T], error) {
	v, err := GetViewMut[T](s.world)
	if err != nil {
		return nil, err
	}
	s.track(v.Release)
	return v, nil
}

func ReadUnique[T any](s *Scope) (*UniqueView[T], error) {
	v, err := GetUniqueView[T](s.world)
	if err != nil {
		return nil, err
	}
	s.track(v.Release)
	return v, nil
}

func WriteUnique[T any](s *Scope) (*UniqueViewMut[T], error) {
	v, err := GetUniqueViewMut[T](s.world)
	if err != nil {
		return nil, err
	}
	s.track(v.Release)
	return v, nil
}

func (s *Scope) Entities() (*EntitiesView, error) {
	v, err := s.world.Entities()
	if err != nil {
		return nil, err
	}
	s.track(v.Release)
	return v, nil
}

func (s *Scope) EntitiesMut() (*EntitiesViewMut, error) {
	v, err := s.world.EntitiesMut()
	if err != nil {
		return nil, err
	}
	s.track(v.Release)
	return v, nil
}

func (s *Scope) AllStoragesMut() (*AllStoragesViewMut, error) {
	v, err := s.world.AllStoragesMut()
	if err != nil {
		return nil, err
	}
	s.track(v.Release)
	return v, nil
}
