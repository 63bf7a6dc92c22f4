package distribution

import (
	"sort"

	"github.com/Carbonhell/SmartDisplay/internal/repository"
)

type Granularity string

const (
	GranularityBuilding Granularity = "building"
	GranularityRoom     Granularity = "room"
)

// Group is one topic snapshot: every upcoming event for a building or a room,
// ordered by timestamp.
type Group struct {
	Topic       string
	Granularity Granularity
	Events      []repository.Event
}

func buildingTopic(building string) string {
	return building
}

func roomTopic(l repository.Location) string {
	return l.Building + "/" + l.Room
}

// upcoming keeps the events strictly after now (epoch seconds).
func upcoming(events []repository.Event, now int64) []repository.Event {
	out := make([]repository.Event, 0, len(events))
	for _, e := range events {
		if e.Timestamp > now {
			out = append(out, e)
		}
	}
	return out
}

// buildGroups returns the building groups followed by the room groups, each
// list sorted by topic. Every event lands in exactly one group of each kind.
func buildGroups(events []repository.Event) []Group {
	byBuilding := make(map[string][]repository.Event)
	byRoom := make(map[repository.Location][]repository.Event)
	for _, e := range events {
		byBuilding[e.Building] = append(byBuilding[e.Building], e)
		byRoom[e.Location()] = append(byRoom[e.Location()], e)
	}

	buildings := make([]Group, 0, len(byBuilding))
	for building, list := range byBuilding {
		buildings = append(buildings, newGroup(buildingTopic(building), GranularityBuilding, list))
	}
	rooms := make([]Group, 0, len(byRoom))
	for l, list := range byRoom {
		rooms = append(rooms, newGroup(roomTopic(l), GranularityRoom, list))
	}
	sortByTopic(buildings)
	sortByTopic(rooms)
	return append(buildings, rooms...)
}

func newGroup(topic string, granularity Granularity, events []repository.Event) Group {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp < events[j].Timestamp
	})
	return Group{Topic: topic, Granularity: granularity, Events: events}
}

func sortByTopic(groups []Group) {
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Topic < groups[j].Topic
	})
}
