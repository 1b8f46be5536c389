// Package aov enumerates the auxiliary output variables covered by the
// regression suite and maps each one to the opaque selector that is handed to
// the renderer.
package aov

import (
	"fmt"
	"strings"
)

// A Selector identifies a renderer output. The harness never interprets its
// value; it is passed through to the renderer and used for bookkeeping only.
type Selector string

// Kind is one of the AOVs the suite knows how to test.
type Kind uint8

const (
	WorldPosition Kind = iota
	WorldNormal
	ShadingNormal
	Tangent
	Bitangent
	Albedo
	UV
	Visibility
	numKinds
)

type kindInfo struct {
	name     string
	selector Selector
}

var kindTable = [numKinds]kindInfo{
	WorldPosition: {"WorldPosition", "world_position"},
	WorldNormal:   {"WorldNormal", "world_geometric_normal"},
	ShadingNormal: {"ShadingNormal", "world_shading_normal"},
	Tangent:       {"Tangent", "world_tangent"},
	Bitangent:     {"Bitangent", "world_bitangent"},
	Albedo:        {"Albedo", "albedo"},
	UV:            {"Uv", "uv"},
	Visibility:    {"Visibility", "visibility"},
}

// All returns every known kind in declaration order.
func All() []Kind {
	kinds := make([]Kind, numKinds)
	for i := range kinds {
		kinds[i] = Kind(i)
	}
	return kinds
}

func (k Kind) valid() bool {
	return k < numKinds
}

func (k Kind) String() string {
	if !k.valid() {
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
	return kindTable[k].name
}

// Selector returns the renderer output selector for this kind.
func (k Kind) Selector() Selector {
	if !k.valid() {
		return ""
	}
	return kindTable[k].selector
}

// TestName returns the test identifier used to name reference and output
// images, e.g. "Aov_WorldPosition".
func (k Kind) TestName() string {
	return "Aov_" + k.String()
}

// Parse resolves a kind from its name, its selector or its test name. Matching
// is case-insensitive.
func Parse(name string) (Kind, error) {
	for i, info := range kindTable {
		k := Kind(i)
		if strings.EqualFold(name, info.name) ||
			strings.EqualFold(name, string(info.selector)) ||
			strings.EqualFold(name, k.TestName()) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("aov: unknown output variable %q", name)
}

// ParseList resolves a list of names. An empty list selects all kinds.
func ParseList(names []string) ([]Kind, error) {
	if len(names) == 0 {
		return All(), nil
	}

	kinds := make([]Kind, 0, len(names))
	for _, name := range names {
		k, err := Parse(name)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}
