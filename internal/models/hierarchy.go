package models

import "strings"

// HierarchyLevel is a level of the organisational tree above the teacher.
type HierarchyLevel string

const (
	LevelZone       HierarchyLevel = "zone"
	LevelProvince   HierarchyLevel = "province"
	LevelDepartment HierarchyLevel = "department"
	LevelCluster    HierarchyLevel = "cluster"
	LevelSchool     HierarchyLevel = "school"
)

// HierarchyLevels lists the levels from the root down.
var HierarchyLevels = []HierarchyLevel{LevelZone, LevelProvince, LevelDepartment, LevelCluster, LevelSchool}

// ParseHierarchyLevel resolves an entity type name.
func ParseHierarchyLevel(value string) (HierarchyLevel, bool) {
	candidate := HierarchyLevel(strings.ToLower(strings.TrimSpace(value)))
	return candidate, candidate.depth() >= 0
}

// HierarchyLevelNames returns the level names for error messages.
func HierarchyLevelNames() []string {
	out := make([]string, len(HierarchyLevels))
	for i, l := range HierarchyLevels {
		out[i] = string(l)
	}
	return out
}

func (l HierarchyLevel) depth() int {
	for i, candidate := range HierarchyLevels {
		if candidate == l {
			return i
		}
	}
	return -1
}

// AndBelow returns this level and every level beneath it.
func (l HierarchyLevel) AndBelow() []HierarchyLevel {
	d := l.depth()
	if d < 0 {
		return nil
	}
	return HierarchyLevels[d:]
}

// EntityRef identifies one node of the hierarchy.
type EntityRef struct {
	Level HierarchyLevel `json:"level"`
	ID    string         `json:"id"`
}
