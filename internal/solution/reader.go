package solution

import (
	"encoding/xml"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/botcarlos-dev/HorariosIPBejaMVC/internal/lp"
	"github.com/botcarlos-dev/HorariosIPBejaMVC/internal/schedule"
	"go.uber.org/zap"
)

// ScheduledClass is one accepted placement decoded from the solver's answer.
type ScheduledClass struct {
	Section int64
	Unit    int64
	Type    int64
	Label   int64
	Room    int64
	Period  int64
}

// Solution is the decoded solver output: accepted placements plus the rooms
// whose usage indicator was set.
type Solution struct {
	Classes   []ScheduledClass
	UsedRooms []int64
}

// Read decodes a solver solution document: repeated variable elements, at any
// depth, carrying name and value attributes. Variables prefixed x with value 1
// denote placements; variables prefixed z_ with value 1 denote used rooms.
// Malformed names, unknown section ids and unparsable values are logged and
// skipped; only a broken XML stream is fatal.
func Read(r io.Reader, input schedule.Input, log *zap.Logger) (Solution, error) {
	sections := input.SectionByID()
	decoder := xml.NewDecoder(r)

	var solution Solution
	usedRooms := make(map[int64]bool)

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		} else if err != nil {
			return Solution{}, fmt.Errorf("cannot parse solution file: %w", err)
		}

		element, ok := token.(xml.StartElement)
		if !ok || element.Name.Local != "variable" {
			continue
		}

		name, value := variableAttrs(element)
		parsedValue, err := strconv.ParseFloat(value, 64)
		if err != nil {
			log.Warn("skipping variable with unparsable value",
				zap.String("name", name), zap.String("value", value))
			continue
		}
		if parsedValue != 1 {
			continue
		}

		switch {
		case len(name) > 0 && name[0] == 'x':
			variable, err := lp.ParseVarName(name)
			if err != nil {
				log.Warn("skipping malformed decision variable", zap.String("name", name))
				continue
			}
			section, ok := sections[variable.Section]
			if !ok {
				log.Warn("skipping variable with unknown section",
					zap.String("name", name), zap.Int64("section", variable.Section))
				continue
			}
			solution.Classes = append(solution.Classes, ScheduledClass{
				Section: section.ID,
				Unit:    section.Unit,
				Type:    section.Type,
				Label:   section.Label,
				Room:    variable.Room,
				Period:  variable.Period,
			})
		case len(name) > 1 && name[:2] == "z_":
			room, err := lp.ParseRoomVarName(name)
			if err != nil {
				log.Warn("skipping malformed room indicator", zap.String("name", name))
				continue
			}
			usedRooms[room] = true
		}
	}

	for room := range usedRooms {
		solution.UsedRooms = append(solution.UsedRooms, room)
	}
	slices.Sort(solution.UsedRooms)

	return solution, nil
}

func variableAttrs(element xml.StartElement) (name, value string) {
	for _, attr := range element.Attr {
		switch attr.Name.Local {
		case "name":
			name = attr.Value
		case "value":
			value = attr.Value
		}
	}
	return name, value
}
