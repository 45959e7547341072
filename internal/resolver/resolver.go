// Package resolver implements the auto-wiring resolver (spec §4.5): for a
// validated composition, each component's effective environment is its own
// declared environment followed by one HOST-and-optional-PORT pair per
// outgoing connection, in source order.
package resolver

import (
	"strconv"
	"strings"

	"github.com/containust/containust/internal/ctst"
)

// Resolved is one component's name plus its ordered effective environment.
type Resolved struct {
	Name string
	Env  []ctst.EnvVar
}

// Resolve computes the resolved record for every component in comp.
func Resolve(comp *ctst.Composition) []Resolved {
	byName := make(map[string]ctst.Component, len(comp.Components))
	for _, c := range comp.Components {
		byName[c.Name] = c
	}

	out := make([]Resolved, 0, len(comp.Components))
	for _, c := range comp.Components {
		env := append([]ctst.EnvVar(nil), c.Env...)
		for _, conn := range comp.Connections {
			if conn.From != c.Name {
				continue
			}
			target, ok := byName[conn.To]
			if !ok {
				continue
			}
			upper := strings.ToUpper(target.Name)
			env = append(env, ctst.EnvVar{Name: upper + "_HOST", Value: target.Name})
			if target.Port != nil {
				env = append(env, ctst.EnvVar{Name: upper + "_PORT", Value: strconv.Itoa(int(*target.Port))})
			}
		}
		out = append(out, Resolved{Name: c.Name, Env: env})
	}
	return out
}
