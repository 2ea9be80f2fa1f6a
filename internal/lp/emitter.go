package lp

import (
	"fmt"
	"slices"
	"strings"

	"github.com/botcarlos-dev/HorariosIPBejaMVC/internal/schedule"
	"github.com/samber/lo"
)

// Emitter translates accepted placements and the global exclusion rules into
// an LP model. The placements arrive already pinned by the first-fit search;
// the emitted constraints re-state them so the solver is left to minimize room
// usage only.
type Emitter struct {
	exclusions    map[int64][]int64
	overlapExempt []int64
}

func NewEmitter(exclusions map[int64][]int64, overlapExempt []int64) *Emitter {
	return &Emitter{
		exclusions:    exclusions,
		overlapExempt: overlapExempt,
	}
}

// slotRegistry collects the decision variables touching each (owner, period)
// pair, preserving registration order so conflict rows come out in a stable
// order.
type slotRegistry struct {
	keys []slotKey
	vars map[slotKey][]string
}

type slotKey struct {
	owner  int64
	period int64
}

func newSlotRegistry() *slotRegistry {
	return &slotRegistry{vars: make(map[slotKey][]string)}
}

func (r *slotRegistry) add(owner, period int64, name string) {
	key := slotKey{owner, period}
	if _, seen := r.vars[key]; !seen {
		r.keys = append(r.keys, key)
	}
	r.vars[key] = append(r.vars[key], name)
}

// Emit builds the model for the allocation result. Per placement it emits the
// continuity, full-allocation and room-usage-linkage families; after the
// per-section pass it emits the global exclusion rows and the no-double-booking
// rows, which guard against any variable created outside the greedy path.
func (e *Emitter) Emit(input schedule.Input, result schedule.Result) *Model {
	model := newModel(input.SortedRooms())

	teacherSlots := newSlotRegistry()
	roomSlots := newSlotRegistry()
	unitByVar := make(map[string]int64)

	for _, placement := range result.Placements {
		section := placement.Section
		blockVars := lo.Map(placement.Periods, func(period int64, _ int) string {
			return VarName(section.ID, placement.Room, period)
		})
		if len(blockVars) == 0 {
			continue
		}

		for i, name := range blockVars {
			model.addVariable(name)
			teacherSlots.add(section.Teacher, placement.Periods[i], name)
			roomSlots.add(placement.Room, placement.Periods[i], name)
			unitByVar[name] = section.Unit
		}

		first := blockVars[0]
		for _, name := range blockVars[1:] {
			model.addConstraint(fmt.Sprintf("cont_%s_%s: %s - %s = 0", first, name, first, name))
		}
		model.addConstraint(fmt.Sprintf(
			"turma_%d_agendada: %s = %d",
			section.ID, strings.Join(blockVars, " + "), section.Duration,
		))
		model.addConstraint(fmt.Sprintf(
			"sala_%d_uso_para_turma_%d: %s - %d %s <= 0",
			placement.Room, section.ID, strings.Join(blockVars, " + "),
			section.Duration, RoomVarName(placement.Room),
		))
	}

	e.emitExclusions(model, input)
	e.emitConflicts(model, "docente", teacherSlots, unitByVar)
	e.emitConflicts(model, "sala", roomSlots, unitByVar)

	return model
}

// emitExclusions re-asserts unit mutual exclusion at the model level: for each
// configured pair and each period, the sum over both units' possible variables
// across all rooms is at most 1. Possible, not created: the row must also cover
// variables introduced outside the greedy path.
func (e *Emitter) emitExclusions(model *Model, input schedule.Input) {
	pairs := e.exclusionPairs()
	sectionsByUnit := input.SectionsByUnit()
	rooms := input.SortedRooms()

	for _, pair := range pairs {
		sections := slices.Concat(sectionsByUnit[pair[0]], sectionsByUnit[pair[1]])
		if len(sections) == 0 {
			continue
		}
		for _, period := range input.SortedPeriods() {
			vars := make([]string, 0, len(sections)*len(rooms))
			for _, section := range sections {
				for _, room := range rooms {
					vars = append(vars, VarName(section, room, period))
				}
			}
			model.addConstraint(fmt.Sprintf(
				"restricao_UC%d_UC%d_periodo_%d: %s <= 1",
				pair[0], pair[1], period, strings.Join(vars, " + "),
			))
		}
	}
}

// exclusionPairs collapses the (symmetric by convention) exclusion table into
// sorted (min, max) pairs so each pair yields one constraint family.
func (e *Emitter) exclusionPairs() [][2]int64 {
	seen := make(map[[2]int64]bool)
	var pairs [][2]int64
	for unit, excluded := range e.exclusions {
		for _, other := range excluded {
			pair := [2]int64{min(unit, other), max(unit, other)}
			if !seen[pair] {
				seen[pair] = true
				pairs = append(pairs, pair)
			}
		}
	}
	slices.SortFunc(pairs, func(a, b [2]int64) int {
		if a[0] != b[0] {
			return int(a[0] - b[0])
		}
		return int(a[1] - b[1])
	})
	return pairs
}

// emitConflicts bounds each multiply-booked (owner, period) slot to a single
// active variable, skipping variables of the overlap-exempt units.
func (e *Emitter) emitConflicts(model *Model, kind string, slots *slotRegistry, unitByVar map[string]int64) {
	for _, key := range slots.keys {
		vars := slots.vars[key]
		if len(vars) < 2 {
			continue
		}
		filtered := lo.Filter(vars, func(name string, _ int) bool {
			return !slices.Contains(e.overlapExempt, unitByVar[name])
		})
		if len(filtered) < 2 {
			continue
		}
		model.addConstraint(fmt.Sprintf(
			"%s_%d_periodo_%d_conflito: %s <= 1",
			kind, key.owner, key.period, strings.Join(filtered, " + "),
		))
	}
}
