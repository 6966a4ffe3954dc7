package simpledi

// Module groups constructors and interface bindings so they can be applied
// to a Types descriptor together.
//
//	var StorageModule = simpledi.NewModule("storage").
//	    Provide(NewConfig, NewDatabase)
//	simpledi.ModuleBind[Repository, *SQLRepository](StorageModule)
//
//	err := types.Apply(StorageModule)
type Module struct {
	name         string
	constructors []any
	bindings     []func(ts *Types) error
	submodules   []*Module
}

func NewModule(name string) *Module {
	return &Module{
		name: name,
	}
}

func (m *Module) Name() string {
	return m.name
}

func (m *Module) Provide(constructors ...any) *Module {
	m.constructors = append(m.constructors, constructors...)
	return m
}

func (m *Module) Include(submodule *Module) *Module {
	m.submodules = append(m.submodules, submodule)
	return m
}

func ModuleBind[I, T any](m *Module) *Module {
	m.bindings = append(
		m.bindings, func(ts *Types) error {
			return Bind[I, T](ts)
		},
	)
	return m
}

func (m *Module) apply(ts *Types) error {
	for _, sub := range m.submodules {
		if err := sub.apply(ts); err != nil {
			return err
		}
	}

	for _, fn := range m.constructors {
		if err := ts.Provide(fn); err != nil {
			return err
		}
	}

	for _, bind := range m.bindings {
		if err := bind(ts); err != nil {
			return err
		}
	}

	return nil
}

// Apply registers the constructors and bindings of modules, submodules first.
func (ts *Types) Apply(modules ...*Module) error {
	for _, m := range modules {
		if err := m.apply(ts); err != nil {
			return errModuleApplyFailed(m.name, err)
		}
	}
	return nil
}
