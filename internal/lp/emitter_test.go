package lp

import (
	"strings"
	"testing"

	"github.com/botcarlos-dev/HorariosIPBejaMVC/internal/schedule"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func singlePlacementFixture() (schedule.Input, schedule.Result) {
	section := schedule.Section{ID: 7, Unit: 4, Teacher: 2, Duration: 2, Label: 1}
	input := schedule.Input{
		Sections: []schedule.Section{section},
		Rooms:    []int64{1},
		Periods:  []int64{1, 2, 3},
		Units:    []schedule.Unit{{ID: 4, Semester: 1}},
	}
	result := schedule.Result{
		Placements: []schedule.Placement{{Section: section, Room: 1, Periods: []int64{1, 2}}},
	}
	return input, result
}

func TestEmitPlacementFamilies(t *testing.T) {
	// Arrange
	input, result := singlePlacementFixture()
	emitter := NewEmitter(nil, nil)

	// Act
	model := emitter.Emit(input, result)

	// Assert
	assert.Equal(t, []string{
		"cont_x7_1_1_x7_1_2: x7_1_1 - x7_1_2 = 0",
		"turma_7_agendada: x7_1_1 + x7_1_2 = 2",
		"sala_1_uso_para_turma_7: x7_1_1 + x7_1_2 - 2 z_1 <= 0",
	}, model.Constraints())
	assert.Equal(t, []string{"x7_1_1", "x7_1_2"}, model.Variables())
}

func TestEmitIsIdempotent(t *testing.T) {
	// Arrange: the same placement twice must not duplicate any row
	input, result := singlePlacementFixture()
	result.Placements = append(result.Placements, result.Placements[0])
	emitter := NewEmitter(nil, nil)

	// Act
	model := emitter.Emit(input, result)

	// Assert
	assert.Len(t, model.Constraints(), 3)
}

func TestEmitGlobalExclusions(t *testing.T) {
	// Arrange: sections 1 (unit 3) and 2 (unit 5); only section 1 was placed,
	// yet the exclusion row must cover both units' possible variables
	input := schedule.Input{
		Sections: []schedule.Section{
			{ID: 1, Unit: 3, Teacher: 1, Duration: 1, Label: 2},
			{ID: 2, Unit: 5, Teacher: 2, Duration: 1, Label: 2},
		},
		Rooms:   []int64{1, 2},
		Periods: []int64{1},
		Units:   []schedule.Unit{{ID: 3, Semester: 1}, {ID: 5, Semester: 2}},
	}
	result := schedule.Result{
		Placements: []schedule.Placement{
			{Section: input.Sections[0], Room: 1, Periods: []int64{1}},
		},
		Unplaced: []schedule.Unplaced{
			{Section: input.Sections[1], Reason: schedule.NoFeasibleSlot},
		},
	}
	emitter := NewEmitter(map[int64][]int64{3: {5}, 5: {3}}, nil)

	// Act
	model := emitter.Emit(input, result)

	// Assert: one row for the (3,5) pair, covering every section x room combination
	assert.Contains(t, model.Constraints(),
		"restricao_UC3_UC5_periodo_1: x1_1_1 + x1_2_1 + x2_1_1 + x2_2_1 <= 1")
}

func TestEmitConflictRows(t *testing.T) {
	t.Run("multiply-booked teacher and room slots are bounded", func(t *testing.T) {
		// Arrange: synthetic placements sharing a teacher and a room slot, as
		// variables created outside the greedy path could
		sectionA := schedule.Section{ID: 1, Unit: 3, Teacher: 9, Duration: 1, Label: 2}
		sectionB := schedule.Section{ID: 2, Unit: 4, Teacher: 9, Duration: 1, Label: 2}
		input := schedule.Input{
			Sections: []schedule.Section{sectionA, sectionB},
			Rooms:    []int64{1, 2},
			Periods:  []int64{1},
			Units:    []schedule.Unit{{ID: 3, Semester: 1}, {ID: 4, Semester: 1}},
		}
		result := schedule.Result{
			Placements: []schedule.Placement{
				{Section: sectionA, Room: 1, Periods: []int64{1}},
				{Section: sectionB, Room: 1, Periods: []int64{1}},
			},
		}

		// Act
		model := NewEmitter(nil, nil).Emit(input, result)

		// Assert
		assert.Contains(t, model.Constraints(), "docente_9_periodo_1_conflito: x1_1_1 + x2_1_1 <= 1")
		assert.Contains(t, model.Constraints(), "sala_1_periodo_1_conflito: x1_1_1 + x2_1_1 <= 1")
	})

	t.Run("overlap-exempt units are filtered out of conflict rows", func(t *testing.T) {
		// Arrange
		sectionA := schedule.Section{ID: 1, Unit: 24, Teacher: 9, Duration: 1, Label: 2}
		sectionB := schedule.Section{ID: 2, Unit: 4, Teacher: 9, Duration: 1, Label: 2}
		input := schedule.Input{
			Sections: []schedule.Section{sectionA, sectionB},
			Rooms:    []int64{1},
			Periods:  []int64{1},
			Units:    []schedule.Unit{{ID: 24, Semester: 1}, {ID: 4, Semester: 1}},
		}
		result := schedule.Result{
			Placements: []schedule.Placement{
				{Section: sectionA, Room: 1, Periods: []int64{1}},
				{Section: sectionB, Room: 1, Periods: []int64{1}},
			},
		}

		// Act
		model := NewEmitter(nil, []int64{24, 25}).Emit(input, result)

		// Assert: a single non-exempt variable remains, so no row is emitted
		for _, row := range model.Constraints() {
			assert.NotContains(t, row, "conflito")
		}
	})
}

func TestRenderGrammar(t *testing.T) {
	// Arrange
	input, result := singlePlacementFixture()
	model := NewEmitter(nil, nil).Emit(input, result)

	// Act
	text := model.Render()

	// Assert
	assert.True(t, strings.HasPrefix(text, "Minimize\n obj: z_1\n\nSubject To\n"))
	assert.Contains(t, text, "\n cont_x7_1_1_x7_1_2: x7_1_1 - x7_1_2 = 0\n")
	assert.Contains(t, text, "\nBinary\n x7_1_1\n x7_1_2\n z_1\nEnd\n")
}

func TestEmitIsDeterministic(t *testing.T) {
	// Arrange: run the full allocation + emission twice on a richer input
	input := schedule.Input{
		Sections: []schedule.Section{
			{ID: 1, Unit: 3, Teacher: 1, Duration: 2, Label: 1},
			{ID: 2, Unit: 5, Teacher: 2, Duration: 1, Label: 2},
			{ID: 3, Unit: 11, Teacher: 1, Duration: 2, Label: 2},
			{ID: 4, Unit: 13, Teacher: 3, Duration: 1, Label: 1},
		},
		Rooms:   []int64{1, 2, 3},
		Periods: []int64{1, 2, 3, 4},
		Units: []schedule.Unit{
			{ID: 3, Semester: 1}, {ID: 5, Semester: 2},
			{ID: 11, Semester: 3}, {ID: 13, Semester: 3},
		},
		RoomEligibility: map[string][]int64{
			"3": {2, 1}, "5": {1}, "11": {3, 1}, "13": {2},
		},
		TeacherUnavailability: map[string][]int64{"1": {1}},
	}
	exclusions := map[int64][]int64{3: {5}, 5: {3}, 11: {13}, 13: {11}}
	allocator := schedule.NewAllocator(zap.NewNop(), exclusions, 1)
	emitter := NewEmitter(exclusions, []int64{24, 25})

	render := func() string {
		result, err := allocator.Build(input)
		assert.Nil(t, err)
		return emitter.Emit(input, result).Render()
	}

	// Act & Assert: byte-identical output on identical input
	first := render()
	for range 5 {
		assert.Equal(t, first, render())
	}
}
