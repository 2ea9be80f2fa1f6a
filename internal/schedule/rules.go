package schedule

import "slices"

// RuleEvaluator answers whether a candidate period block violates one of the
// placement-order-dependent exclusion rules. Both checks are pure queries over
// the placements committed so far; they must run before a block is reserved,
// since acceptance is irrevocable.
type RuleEvaluator interface {
	// SemesterConflict checks whether placing the section on the candidate
	// periods would overlap, in any room, an already placed section whose
	// curricular unit shares the same semester. Only sections carrying the
	// theoretical label are subject to this rule.
	SemesterConflict(section Section, periods []int64) bool

	// ExclusionConflict checks whether placing the section on the candidate
	// periods would overlap, in any room, an already placed section belonging
	// to a unit the section's unit is mutually exclusive with.
	ExclusionConflict(section Section, periods []int64) bool
}

type ruleEvaluator struct {
	tracker          *Tracker
	unitBySection    map[int64]int64
	semesterByUnit   map[int64]int64
	exclusions       map[int64][]int64
	theoreticalLabel int64
}

func NewRuleEvaluator(
	tracker *Tracker,
	input Input,
	exclusions map[int64][]int64,
	theoreticalLabel int64,
) RuleEvaluator {
	return &ruleEvaluator{
		tracker:          tracker,
		unitBySection:    input.UnitBySection(),
		semesterByUnit:   input.SemesterByUnit(),
		exclusions:       exclusions,
		theoreticalLabel: theoreticalLabel,
	}
}

func (evaluator *ruleEvaluator) SemesterConflict(section Section, periods []int64) bool {
	if section.Label != evaluator.theoreticalLabel {
		return false
	}

	semester, ok := evaluator.semesterByUnit[section.Unit]
	if !ok {
		return false
	}

	for _, period := range periods {
		for _, placed := range evaluator.tracker.SectionsAt(period) {
			placedUnit, ok := evaluator.unitBySection[placed]
			if !ok {
				continue
			}
			if placedSemester, ok := evaluator.semesterByUnit[placedUnit]; ok && placedSemester == semester {
				return true
			}
		}
	}
	return false
}

func (evaluator *ruleEvaluator) ExclusionConflict(section Section, periods []int64) bool {
	excluded := evaluator.exclusions[section.Unit]
	if len(excluded) == 0 {
		return false
	}

	for _, period := range periods {
		for _, placed := range evaluator.tracker.SectionsAt(period) {
			placedUnit, ok := evaluator.unitBySection[placed]
			if !ok {
				continue
			}
			if slices.Contains(excluded, placedUnit) {
				return true
			}
		}
	}
	return false
}
