package schedule

import (
	"errors"

	"go.uber.org/zap"
)

// ErrMissingSemesterData signals that the input carries no unit -> semester
// mapping at all. Every exclusivity check depends on it, so the run aborts.
var ErrMissingSemesterData = errors.New("schedule: input has no unit/semester mapping")

// Reason classifies why a section was left unplaced.
type Reason string

const (
	// NoEligibleRooms means the room-eligibility relation yields no room for
	// the section's curricular unit.
	NoEligibleRooms Reason = "no_eligible_rooms"
	// NoFeasibleSlot means no room/period combination survived all checks.
	NoFeasibleSlot Reason = "no_feasible_slot"
	// NoSemester means the section's unit has no semester number, so the
	// exclusivity rules cannot be evaluated for it.
	NoSemester Reason = "no_semester_for_unit"
)

// Placement is the accepted assignment of a section to a room and an ordered
// contiguous period block. A section has at most one placement.
type Placement struct {
	Section Section
	Room    int64
	Periods []int64
}

// Unplaced pairs a failed section with its reason class.
type Unplaced struct {
	Section Section
	Reason  Reason
}

// Result carries the outcome of a full allocation pass. Placements are ordered
// by ascending section id.
type Result struct {
	Placements []Placement
	Unplaced   []Unplaced
}

// Allocator performs the greedy first-fit search. It is deliberately not a
// backtracking solver: the first block surviving all checks is committed, and
// an early commitment can starve a later section. The external MILP solver only
// refines room usage afterwards.
type Allocator interface {
	Build(input Input) (Result, error)
}

type allocator struct {
	log              *zap.Logger
	exclusions       map[int64][]int64
	theoreticalLabel int64
}

func NewAllocator(log *zap.Logger, exclusions map[int64][]int64, theoreticalLabel int64) Allocator {
	return &allocator{
		log:              log,
		exclusions:       exclusions,
		theoreticalLabel: theoreticalLabel,
	}
}

func (a *allocator) Build(input Input) (Result, error) {
	semesterByUnit := input.SemesterByUnit()
	if len(semesterByUnit) == 0 {
		return Result{}, ErrMissingSemesterData
	}

	tracker := NewTracker()
	evaluator := NewRuleEvaluator(tracker, input, a.exclusions, a.theoreticalLabel)

	eligibility := input.GetRoomEligibility()
	unavailability := input.GetTeacherUnavailability()
	periods := input.SortedPeriods()

	var result Result
	for _, section := range input.SortedSections() {
		if _, ok := semesterByUnit[section.Unit]; !ok {
			a.reject(&result, section, NoSemester)
			continue
		}

		rooms := eligibility[section.Unit]
		if len(rooms) == 0 {
			a.reject(&result, section, NoEligibleRooms)
			continue
		}

		block := a.search(section, rooms, periods, tracker, evaluator, unavailability[section.Teacher])
		if block == nil {
			a.reject(&result, section, NoFeasibleSlot)
			continue
		}

		tracker.Reserve(section, block.Room, block.Periods)
		result.Placements = append(result.Placements, *block)
		a.log.Info("section placed",
			zap.Int64("section", section.ID),
			zap.Int64("unit", section.Unit),
			zap.Int64("room", block.Room),
			zap.Int64s("periods", block.Periods),
		)
	}

	return result, nil
}

// search returns the first placement surviving every check, or nil when the
// section cannot be placed. Rooms and periods arrive sorted, which makes the
// first fit deterministic.
func (a *allocator) search(
	section Section,
	rooms []int64,
	periods []int64,
	tracker *Tracker,
	evaluator RuleEvaluator,
	unavailable map[int64]bool,
) *Placement {
	duration := int(section.Duration)
	for _, room := range rooms {
		for start := 0; start+duration <= len(periods); start++ {
			block := periods[start : start+duration]
			if !contiguous(block) {
				continue
			}
			if a.blocked(section, room, block, tracker, unavailable) {
				continue
			}
			if evaluator.SemesterConflict(section, block) || evaluator.ExclusionConflict(section, block) {
				continue
			}
			return &Placement{Section: section, Room: room, Periods: block}
		}
	}
	return nil
}

func (a *allocator) blocked(
	section Section,
	room int64,
	block []int64,
	tracker *Tracker,
	unavailable map[int64]bool,
) bool {
	for _, period := range block {
		if !tracker.RoomFree(room, period) ||
			unavailable[period] ||
			!tracker.TeacherFree(section.Teacher, period) {
			return true
		}
	}
	return false
}

func (a *allocator) reject(result *Result, section Section, reason Reason) {
	result.Unplaced = append(result.Unplaced, Unplaced{Section: section, Reason: reason})
	a.log.Warn("section left unplaced",
		zap.Int64("section", section.ID),
		zap.Int64("unit", section.Unit),
		zap.String("reason", string(reason)),
	)
}

// contiguous reports whether the period ids form a run differing by exactly 1.
func contiguous(block []int64) bool {
	for i := 0; i+1 < len(block); i++ {
		if block[i]+1 != block[i+1] {
			return false
		}
	}
	return true
}
