package interaction

import (
	"sort"

	"github.com/Carbonhell/SmartDisplay/internal/registry"
	"github.com/Carbonhell/SmartDisplay/internal/repository"
)

// buildLocationOptions groups device rooms by building and flattens them into
// one location per distinct (building, room). Devices without a building are
// skipped; a building with no rooms yields nothing.
func buildLocationOptions(devices []registry.Device) []repository.Location {
	roomsByBuilding := make(map[string]map[string]struct{})
	for _, d := range devices {
		building, ok := d.Attributes[registry.AttributeBuilding]
		if !ok {
			continue
		}
		rooms, exists := roomsByBuilding[building]
		if !exists {
			rooms = make(map[string]struct{})
			roomsByBuilding[building] = rooms
		}
		if room, ok := d.Attributes[registry.AttributeRoom]; ok {
			rooms[room] = struct{}{}
		}
	}

	options := make([]repository.Location, 0, len(roomsByBuilding))
	for building, rooms := range roomsByBuilding {
		for room := range rooms {
			options = append(options, repository.Location{Building: building, Room: room})
		}
	}
	sort.Slice(options, func(i, j int) bool {
		if options[i].Building != options[j].Building {
			return options[i].Building < options[j].Building
		}
		return options[i].Room < options[j].Room
	})
	return options
}
