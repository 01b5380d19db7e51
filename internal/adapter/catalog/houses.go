package catalog

import (
	"fmt"
	"os"

	"mapstate/internal/domain/world"

	"gopkg.in/yaml.v3"
)

type housesFile struct {
	Houses []houseDef `yaml:"houses"`
}

type houseDef struct {
	ID     uint32           `yaml:"id"`
	Name   string           `yaml:"name"`
	TownID uint32           `yaml:"town_id"`
	Rent   uint32           `yaml:"rent"`
	Tiles  []world.Position `yaml:"tiles"`
	Items  []fixtureDef     `yaml:"items"`
}

// fixtureDef is an item that belongs to the map itself, such as a door.
type fixtureDef struct {
	world.Position `yaml:",inline"`
	Type           uint16 `yaml:"type"`
	DoorID         uint8  `yaml:"door_id"`
}

// LoadHouses reads the house layout at path into w.
func LoadHouses(path string, w *world.World) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := ParseHouses(raw, w); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// ParseHouses creates the houses, their tiles and the fixtures lying on
// them. Fixtures must sit on a tile of their house.
func ParseHouses(raw []byte, w *world.World) error {
	var f housesFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("houses yaml: %w", err)
	}
	for _, d := range f.Houses {
		if d.ID == 0 {
			return fmt.Errorf("house %q: id is required", d.Name)
		}
		h := world.NewHouse(d.ID)
		h.Name = d.Name
		h.TownID = d.TownID
		h.Rent = d.Rent
		if err := w.AddHouse(h); err != nil {
			return fmt.Errorf("house %d: %w", d.ID, err)
		}
		for _, pos := range d.Tiles {
			tile, err := w.AddTile(pos)
			if err != nil {
				return fmt.Errorf("house %d tile %s: %w", d.ID, pos, err)
			}
			h.AddTile(tile)
		}
		for _, fx := range d.Items {
			tile, ok := w.Tile(fx.Position)
			if !ok || tile.HouseID() != d.ID {
				return fmt.Errorf("house %d: item %d at %s is outside the house", d.ID, fx.Type, fx.Position)
			}
			if _, known := w.Registry().Resolve(fx.Type); !known {
				return fmt.Errorf("house %d: unknown item type %d", d.ID, fx.Type)
			}
			item := w.NewItem(fx.Type)
			if door, isDoor := item.Door(); isDoor {
				door.DoorID = fx.DoorID
			}
			w.PlaceItem(tile, item)
			h.AddDoor(item)
		}
	}
	return nil
}
