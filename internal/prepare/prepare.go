package prepare

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/botcarlos-dev/HorariosIPBejaMVC/internal/schedule"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// ErrUnmappedSessionLabel signals a section label with no configured numeric
// id. Normalization cannot proceed with an unknown label, so this is fatal.
var ErrUnmappedSessionLabel = errors.New("prepare: session label has no configured id")

// Expected CSV exports of the source tables, by relation name.
var tableFiles = map[string]string{
	"unidades_curriculares":     "unidades_curriculares.csv",
	"turmas":                    "turmas.csv",
	"salas":                     "salas.csv",
	"periodos":                  "periodos_horarios.csv",
	"uc_sala":                   "uc_sala.csv",
	"indisponibilidade_docente": "indisponibilidade_docentes.csv",
}

var requiredColumns = map[string][]string{
	"unidades_curriculares":     {"id", "semestre"},
	"turmas":                    {"id", "unidade_curricular_id", "docente_id", "tipo_aula_id", "duracao", "turma_label"},
	"salas":                     {"id"},
	"periodos":                  {"id", "dia_semana", "hora_inicio", "hora_fim"},
	"uc_sala":                   {"unidade_curricular_id", "sala_id"},
	"indisponibilidade_docente": {"docente_id", "periodo_horario_id"},
}

var weekdays = map[string]bool{
	"Segunda": true,
	"Terça":   true,
	"Quarta":  true,
	"Quinta":  true,
	"Sexta":   true,
}

// Tables holds the raw relations as header-keyed rows.
type Tables map[string][]map[string]string

// LoadTables reads every expected CSV export from dir and verifies the
// required columns are present.
func LoadTables(dir string, log *zap.Logger) (Tables, error) {
	tables := make(Tables)
	for name, file := range tableFiles {
		rows, err := readTable(filepath.Join(dir, file))
		if err != nil {
			return nil, fmt.Errorf("cannot load table %v: %w", name, err)
		}
		tables[name] = rows
		log.Info("table imported", zap.String("table", name), zap.Int("rows", len(rows)))
	}

	for name, columns := range requiredColumns {
		rows := tables[name]
		if len(rows) == 0 {
			continue
		}
		for _, column := range columns {
			if _, ok := rows[0][column]; !ok {
				return nil, fmt.Errorf("table %v is missing column %v", name, column)
			}
		}
	}

	return tables, nil
}

func readTable(path string) ([]map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("table has no header row")
	}

	header := records[0]
	rows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]string, len(header))
		for i, column := range header {
			if i < len(record) {
				row[column] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Preprocessor normalizes the raw relations into solver-ready inputs, split by
// semester parity.
type Preprocessor struct {
	log      *zap.Logger
	labels   map[string]int64
	dayStart string
	dayEnd   string
}

func NewPreprocessor(log *zap.Logger, labels map[string]int64, dayStart, dayEnd string) *Preprocessor {
	return &Preprocessor{
		log:      log,
		labels:   labels,
		dayStart: dayStart,
		dayEnd:   dayEnd,
	}
}

// Build joins the unit semester onto each section, maps session labels to ids,
// keeps only weekday periods inside the configured hour window, and splits the
// sections into odd- and even-semester inputs. Rooms, periods, units and the
// relations are shared by both splits.
func (p *Preprocessor) Build(tables Tables) (odd, even schedule.Input, err error) {
	units, err := p.units(tables["unidades_curriculares"])
	if err != nil {
		return schedule.Input{}, schedule.Input{}, err
	}
	semesterByUnit := lo.SliceToMap(units, func(unit schedule.Unit) (int64, int64) {
		return unit.ID, unit.Semester
	})

	sections, err := p.sections(tables["turmas"])
	if err != nil {
		return schedule.Input{}, schedule.Input{}, err
	}

	rooms, err := column(tables["salas"], "id")
	if err != nil {
		return schedule.Input{}, schedule.Input{}, err
	}
	slices.Sort(rooms)

	periods, err := p.periods(tables["periodos"])
	if err != nil {
		return schedule.Input{}, schedule.Input{}, err
	}

	eligibility, err := relation(tables["uc_sala"], "unidade_curricular_id", "sala_id")
	if err != nil {
		return schedule.Input{}, schedule.Input{}, err
	}
	unavailability, err := relation(tables["indisponibilidade_docente"], "docente_id", "periodo_horario_id")
	if err != nil {
		return schedule.Input{}, schedule.Input{}, err
	}

	base := schedule.Input{
		Rooms:                 rooms,
		Periods:               periods,
		Units:                 units,
		RoomEligibility:       eligibility,
		TeacherUnavailability: unavailability,
	}

	odd, even = base, base
	for _, section := range sections {
		semester, ok := semesterByUnit[section.Unit]
		if !ok {
			p.log.Warn("dropping section of unit without semester",
				zap.Int64("section", section.ID), zap.Int64("unit", section.Unit))
			continue
		}
		if semester%2 == 1 {
			odd.Sections = append(odd.Sections, section)
		} else {
			even.Sections = append(even.Sections, section)
		}
	}

	p.log.Info("sections split by semester parity",
		zap.Int("odd", len(odd.Sections)), zap.Int("even", len(even.Sections)))

	return odd, even, nil
}

func (p *Preprocessor) units(rows []map[string]string) ([]schedule.Unit, error) {
	units := make([]schedule.Unit, 0, len(rows))
	for _, row := range rows {
		id, err := parseID(row, "id")
		if err != nil {
			return nil, err
		}
		semester, err := parseID(row, "semestre")
		if err != nil {
			return nil, err
		}
		units = append(units, schedule.Unit{ID: id, Semester: semester})
	}
	return units, nil
}

func (p *Preprocessor) sections(rows []map[string]string) ([]schedule.Section, error) {
	seen := make(map[int64]bool)
	sections := make([]schedule.Section, 0, len(rows))
	for _, row := range rows {
		id, err := parseID(row, "id")
		if err != nil {
			return nil, err
		}
		if seen[id] { // join duplicates in the source export
			continue
		}
		seen[id] = true

		unit, err := parseID(row, "unidade_curricular_id")
		if err != nil {
			return nil, err
		}
		teacher, err := parseID(row, "docente_id")
		if err != nil {
			return nil, err
		}
		sessionType, err := parseID(row, "tipo_aula_id")
		if err != nil {
			return nil, err
		}
		duration, err := parseID(row, "duracao")
		if err != nil {
			return nil, err
		}

		// config.Load folds the label keys to upper case; fold the CSV
		// value the same way so the lookup survives viper's key folding.
		label, ok := p.labels[strings.ToUpper(row["turma_label"])]
		if !ok {
			return nil, fmt.Errorf("%w: %q (section %d)", ErrUnmappedSessionLabel, row["turma_label"], id)
		}

		sections = append(sections, schedule.Section{
			ID:       id,
			Unit:     unit,
			Teacher:  teacher,
			Type:     sessionType,
			Duration: duration,
			Label:    label,
		})
	}
	return sections, nil
}

// periods keeps Monday-Friday periods whose window falls inside the configured
// day bounds.
func (p *Preprocessor) periods(rows []map[string]string) ([]int64, error) {
	dayStart, err := parseClock(p.dayStart)
	if err != nil {
		return nil, err
	}
	dayEnd, err := parseClock(p.dayEnd)
	if err != nil {
		return nil, err
	}

	var periods []int64
	for _, row := range rows {
		if !weekdays[row["dia_semana"]] {
			continue
		}
		start, err := parseClock(row["hora_inicio"])
		if err != nil {
			p.log.Warn("dropping period with unparsable start", zap.String("value", row["hora_inicio"]))
			continue
		}
		end, err := parseClock(row["hora_fim"])
		if err != nil {
			p.log.Warn("dropping period with unparsable end", zap.String("value", row["hora_fim"]))
			continue
		}
		if start.Before(dayStart) || end.After(dayEnd) {
			continue
		}

		id, err := parseID(row, "id")
		if err != nil {
			return nil, err
		}
		periods = append(periods, id)
	}
	slices.Sort(periods)
	return periods, nil
}

func parseClock(value string) (time.Time, error) {
	return time.Parse("15:04", value)
}

func parseID(row map[string]string, col string) (int64, error) {
	id, err := strconv.ParseInt(row[col], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("column %v holds %q, not an id: %w", col, row[col], err)
	}
	return id, nil
}

func column(rows []map[string]string, col string) ([]int64, error) {
	values := make([]int64, 0, len(rows))
	for _, row := range rows {
		value, err := parseID(row, col)
		if err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	return values, nil
}

// relation folds rows into a string-keyed one-to-many mapping, the shape the
// normalized JSON carries.
func relation(rows []map[string]string, keyCol, valueCol string) (map[string][]int64, error) {
	result := make(map[string][]int64)
	for _, row := range rows {
		key, err := parseID(row, keyCol)
		if err != nil {
			return nil, err
		}
		value, err := parseID(row, valueCol)
		if err != nil {
			return nil, err
		}
		keyStr := strconv.FormatInt(key, 10)
		if !slices.Contains(result[keyStr], value) {
			result[keyStr] = append(result[keyStr], value)
		}
	}
	for _, values := range result {
		slices.Sort(values)
	}
	return result, nil
}

// WriteInput serializes a normalized input to path.
func WriteInput(path string, input schedule.Input) error {
	bytes, err := json.MarshalIndent(input, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot serialize input: %w", err)
	}
	return os.WriteFile(path, bytes, 0o644)
}
