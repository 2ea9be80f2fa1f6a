package lp

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidVariableName signals a decision-variable name that does not follow
// the x<sectionId>_<roomId>_<periodId> grammar.
var ErrInvalidVariableName = errors.New("lp: invalid decision-variable name")

// VarName renders the decision variable for a section occupying a room at a
// period.
func VarName(section, room, period int64) string {
	return fmt.Sprintf("x%d_%d_%d", section, room, period)
}

// RoomVarName renders the binary room-usage indicator.
func RoomVarName(room int64) string {
	return fmt.Sprintf("z_%d", room)
}

// PlacementVar is a decoded decision-variable name.
type PlacementVar struct {
	Section int64
	Room    int64
	Period  int64
}

// ParseVarName decodes a decision-variable name back into its id triple.
func ParseVarName(name string) (PlacementVar, error) {
	if !strings.HasPrefix(name, "x") {
		return PlacementVar{}, fmt.Errorf("%w: %q", ErrInvalidVariableName, name)
	}

	parts := strings.Split(name[1:], "_")
	if len(parts) != 3 {
		return PlacementVar{}, fmt.Errorf("%w: %q", ErrInvalidVariableName, name)
	}

	ids := make([]int64, len(parts))
	for i, part := range parts {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return PlacementVar{}, fmt.Errorf("%w: %q", ErrInvalidVariableName, name)
		}
		ids[i] = id
	}

	return PlacementVar{Section: ids[0], Room: ids[1], Period: ids[2]}, nil
}

// ParseRoomVarName decodes a room-usage indicator name into the room id.
func ParseRoomVarName(name string) (int64, error) {
	suffix, ok := strings.CutPrefix(name, "z_")
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidVariableName, name)
	}
	room, err := strconv.ParseInt(suffix, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidVariableName, name)
	}
	return room, nil
}
