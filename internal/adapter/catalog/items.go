// Package catalog reads the item type table and the house layout from YAML.
package catalog

import (
	"fmt"
	"os"
	"time"

	"mapstate/internal/domain/world"

	"gopkg.in/yaml.v3"
)

type itemsFile struct {
	Items []itemDef `yaml:"items"`
}

type itemDef struct {
	ID             uint16        `yaml:"id"`
	Name           string        `yaml:"name"`
	Group          string        `yaml:"group"`
	Movable        bool          `yaml:"movable"`
	Carpet         bool          `yaml:"carpet"`
	ForceSerialize bool          `yaml:"force_serialize"`
	TransformOnUse uint16        `yaml:"transform_on_use"`
	DecayTime      time.Duration `yaml:"decay_time"`
	DecayTo        uint16        `yaml:"decay_to"`
}

func parseGroup(s string) (world.ItemGroup, error) {
	switch s {
	case "", "none":
		return world.GroupNone, nil
	case "container":
		return world.GroupContainer, nil
	case "door":
		return world.GroupDoor, nil
	case "bed":
		return world.GroupBed, nil
	default:
		return world.GroupNone, fmt.Errorf("unknown item group %q", s)
	}
}

// LoadItems reads the item type table at path.
func LoadItems(path string) (*world.Registry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	reg, err := ParseItems(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return reg, nil
}

func ParseItems(raw []byte) (*world.Registry, error) {
	var f itemsFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("items yaml: %w", err)
	}
	seen := make(map[uint16]struct{}, len(f.Items))
	types := make([]world.ItemType, 0, len(f.Items))
	for _, d := range f.Items {
		if d.ID == 0 {
			return nil, fmt.Errorf("item %q: id is required", d.Name)
		}
		if _, dup := seen[d.ID]; dup {
			return nil, fmt.Errorf("item %d: duplicate id", d.ID)
		}
		seen[d.ID] = struct{}{}
		group, err := parseGroup(d.Group)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", d.ID, err)
		}
		if d.DecayTime < 0 {
			return nil, fmt.Errorf("item %d: negative decay_time", d.ID)
		}
		types = append(types, world.ItemType{
			ID:             d.ID,
			Name:           d.Name,
			Group:          group,
			Movable:        d.Movable,
			Carpet:         d.Carpet,
			ForceSerialize: d.ForceSerialize,
			TransformOnUse: d.TransformOnUse,
			DecayTime:      d.DecayTime,
			DecayTo:        d.DecayTo,
		})
	}
	for _, t := range types {
		if t.DecayTo != 0 {
			if _, ok := seen[t.DecayTo]; !ok {
				return nil, fmt.Errorf("item %d: decay_to %d is not defined", t.ID, t.DecayTo)
			}
		}
	}
	return world.NewRegistry(types...), nil
}
