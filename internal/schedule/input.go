package schedule

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strconv"

	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
)

// Section is a single class instance (turma) of a curricular unit that needs a
// room and a contiguous period block.
type Section struct {
	ID       int64 `json:"id" mapstructure:"id"`
	Unit     int64 `json:"unitId" mapstructure:"unitId"`
	Teacher  int64 `json:"teacherId" mapstructure:"teacherId"`
	Type     int64 `json:"sessionTypeId" mapstructure:"sessionTypeId"`
	Duration int64 `json:"duration" mapstructure:"duration"`
	Label    int64 `json:"labelId" mapstructure:"labelId"`
}

// Unit is a curricular unit together with the semester it belongs to.
type Unit struct {
	ID       int64 `json:"id" mapstructure:"id"`
	Semester int64 `json:"semester" mapstructure:"semester"`
}

// Input holds the normalized relations produced by the data-preparation step.
// Relation maps are keyed by the owning entity's id rendered as a string, since
// JSON object keys are strings; use the Get methods for int-keyed views.
type Input struct {
	Sections              []Section          `json:"sections" mapstructure:"sections"`
	Rooms                 []int64            `json:"rooms" mapstructure:"rooms"`
	Periods               []int64            `json:"periods" mapstructure:"periods"`
	Units                 []Unit             `json:"units" mapstructure:"units"`
	RoomEligibility       map[string][]int64 `json:"roomEligibility" mapstructure:"roomEligibility"`
	TeacherUnavailability map[string][]int64 `json:"teacherUnavailability" mapstructure:"teacherUnavailability"`
}

// GetRoomEligibility returns the unit -> permitted-rooms relation with the room
// lists sorted ascending, so iteration over candidate rooms is deterministic.
func (input Input) GetRoomEligibility() map[int64][]int64 {
	result := make(map[int64][]int64)
	for k, v := range input.RoomEligibility {
		key, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			panic(fmt.Sprintf("cannot transform dictionary: %v", err))
		}
		rooms := slices.Clone(v)
		slices.Sort(rooms)
		result[key] = slices.Compact(rooms)
	}
	return result
}

// GetTeacherUnavailability returns the teacher -> forbidden-periods relation as
// period sets.
func (input Input) GetTeacherUnavailability() map[int64]map[int64]bool {
	result := make(map[int64]map[int64]bool)
	for k, v := range input.TeacherUnavailability {
		key, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			panic(fmt.Sprintf("cannot transform dictionary: %v", err))
		}
		result[key] = lo.SliceToMap(v, func(period int64) (int64, bool) {
			return period, true
		})
	}
	return result
}

// SortedSections returns a copy of the sections sorted by ascending id. The
// search order is the correctness-relevant serialization, so the sort is
// explicit rather than trusted to the input.
func (input Input) SortedSections() []Section {
	sections := slices.Clone(input.Sections)
	slices.SortFunc(sections, func(a, b Section) int {
		return int(a.ID - b.ID)
	})
	return sections
}

// SortedRooms returns all room ids sorted ascending.
func (input Input) SortedRooms() []int64 {
	rooms := slices.Clone(input.Rooms)
	slices.Sort(rooms)
	return rooms
}

// SortedPeriods returns all period ids sorted ascending.
func (input Input) SortedPeriods() []int64 {
	periods := slices.Clone(input.Periods)
	slices.Sort(periods)
	return periods
}

// SemesterByUnit maps each curricular unit to its semester number.
func (input Input) SemesterByUnit() map[int64]int64 {
	return lo.SliceToMap(input.Units, func(unit Unit) (int64, int64) {
		return unit.ID, unit.Semester
	})
}

// UnitBySection maps each section id to its curricular unit.
func (input Input) UnitBySection() map[int64]int64 {
	return lo.SliceToMap(input.Sections, func(section Section) (int64, int64) {
		return section.ID, section.Unit
	})
}

// SectionsByUnit groups section ids by curricular unit, each group sorted
// ascending.
func (input Input) SectionsByUnit() map[int64][]int64 {
	result := make(map[int64][]int64)
	for _, section := range input.SortedSections() {
		result[section.Unit] = append(result[section.Unit], section.ID)
	}
	return result
}

// SectionByID maps each section id to the full section record.
func (input Input) SectionByID() map[int64]Section {
	return lo.SliceToMap(input.Sections, func(section Section) (int64, Section) {
		return section.ID, section
	})
}

// InputFromJSON loads a normalized input file.
func InputFromJSON(file string) (Input, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return Input{}, err
	}

	var inputJSON map[string]any
	if err := json.Unmarshal(bytes, &inputJSON); err != nil {
		return Input{}, err
	}

	var input Input
	if err := mapstructure.Decode(inputJSON, &input); err != nil {
		return Input{}, err
	}

	return input, nil
}
