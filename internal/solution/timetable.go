package solution

import (
	"fmt"
	"html/template"
	"os"
	"strings"

	"go.uber.org/zap"
)

var days = []string{"Segunda-feira", "Terça-feira", "Quarta-feira", "Quinta-feira", "Sexta-feira"}

const timetableTemplate = `<html>
<head>
<title>School Timetable</title>
<style>
    body { font-family: Arial, sans-serif; }
    h1 { text-align: center; }
    .timetable {
        width: 80%;
        margin: 0 auto;
        border-collapse: collapse;
        font-size: 14px;
    }
    .timetable th, .timetable td {
        border: 1px solid #ddd;
        padding: 8px;
        text-align: center;
        vertical-align: top;
    }
    .timetable th {
        background-color: #4CAF50;
        color: white;
    }
    .timetable tr:nth-child(even) { background-color: #f2f2f2; }
    .timetable tr:hover { background-color: #ddd; }
</style>
</head>
<body>
<h1>School Timetable</h1>
<table class="timetable">
<tr><th></th>{{range .Days}}<th>{{.}}</th>{{end}}</tr>
{{range .Rows}}<tr><th>{{.Hour}}</th>{{range .Cells}}<td>{{.}}</td>{{end}}</tr>
{{end}}</table>
</body>
</html>
`

type timetableRow struct {
	Hour  string
	Cells []template.HTML
}

// RenderTimetable lays the accepted placements out as an HTML week grid of
// periodsPerDay hour slots starting at 08:30, Monday through Friday. Periods
// beyond the grid are logged and dropped.
func RenderTimetable(classes []ScheduledClass, periodsPerDay int, log *zap.Logger) (string, error) {
	rows := make([]timetableRow, periodsPerDay)
	for i := range rows {
		rows[i] = timetableRow{
			Hour:  fmt.Sprintf("%d:30 - %d:30", 8+i, 9+i),
			Cells: make([]template.HTML, len(days)),
		}
	}

	for _, class := range classes {
		dayIndex := int(class.Period-1) / periodsPerDay
		slotIndex := int(class.Period-1) % periodsPerDay
		if class.Period < 1 || dayIndex >= len(days) {
			log.Warn("period outside the timetable grid",
				zap.Int64("section", class.Section), zap.Int64("period", class.Period))
			continue
		}

		entry := fmt.Sprintf("UC: %d | Tipo: %d | Label: %d | Sala: %d",
			class.Unit, class.Type, class.Label, class.Room)
		cell := &rows[slotIndex].Cells[dayIndex]
		if *cell == "" {
			*cell = template.HTML(template.HTMLEscapeString(entry))
		} else {
			*cell += template.HTML("<br>" + template.HTMLEscapeString(entry))
		}
	}

	parsed, err := template.New("timetable").Parse(timetableTemplate)
	if err != nil {
		return "", fmt.Errorf("cannot parse timetable template: %w", err)
	}

	var builder strings.Builder
	err = parsed.Execute(&builder, struct {
		Days []string
		Rows []timetableRow
	}{days, rows})
	if err != nil {
		return "", fmt.Errorf("cannot render timetable: %w", err)
	}

	return builder.String(), nil
}

// WriteTimetable renders the grid and writes it to path.
func WriteTimetable(path string, classes []ScheduledClass, periodsPerDay int, log *zap.Logger) error {
	html, err := RenderTimetable(classes, periodsPerDay, log)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(html), 0o644)
}
