package schedule

type slot struct {
	owner  int64 // room id or teacher id, depending on the map
	period int64
}

// Tracker records which section holds each (room, period) and (teacher, period)
// pair during the first-fit pass. It is an explicit context object: the
// allocator is its only writer and it is discarded at the end of a run.
type Tracker struct {
	roomSlots    map[slot]int64
	teacherSlots map[slot]int64
}

func NewTracker() *Tracker {
	return &Tracker{
		roomSlots:    make(map[slot]int64),
		teacherSlots: make(map[slot]int64),
	}
}

func (t *Tracker) RoomFree(room, period int64) bool {
	_, occupied := t.roomSlots[slot{room, period}]
	return !occupied
}

func (t *Tracker) TeacherFree(teacher, period int64) bool {
	_, occupied := t.teacherSlots[slot{teacher, period}]
	return !occupied
}

// Reserve records the section in every (room, period) and (teacher, period)
// pair of the block. The caller is single-threaded, so the reservation is
// atomic with respect to any subsequent query.
func (t *Tracker) Reserve(section Section, room int64, periods []int64) {
	for _, period := range periods {
		t.roomSlots[slot{room, period}] = section.ID
		t.teacherSlots[slot{section.Teacher, period}] = section.ID
	}
}

// SectionAt returns the section occupying the room at the period, if any.
func (t *Tracker) SectionAt(room, period int64) (int64, bool) {
	section, ok := t.roomSlots[slot{room, period}]
	return section, ok
}

// SectionsAt returns every section occupying the period in any room. Order is
// unspecified; callers use it only for conflict detection.
func (t *Tracker) SectionsAt(period int64) []int64 {
	var sections []int64
	for key, section := range t.roomSlots {
		if key.period == period {
			sections = append(sections, section)
		}
	}
	return sections
}
