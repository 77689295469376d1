package integrators

import (
	"fmt"
	"sort"
)

var registry = map[string]func() Integrator{
	"euler":    func() Integrator { return NewSymplecticEuler() },
	"explicit": func() Integrator { return NewExplicitEuler() },
	"impulse":  func() Integrator { return NewImpulseEuler() },
}

// Default is the registry name of the reference stepper.
const Default = "euler"

// Get returns a fresh integrator by name.
func Get(name string) (Integrator, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s (available: %v)", name, Names())
	}
	return fn(), nil
}

// Names lists registered integrators in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
