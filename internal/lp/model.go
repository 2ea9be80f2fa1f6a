package lp

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// Model accumulates the objective, constraint rows and binary declarations of
// one LP file. Constraint emission is idempotent: a row whose text was already
// added is silently suppressed, and emission order is preserved otherwise.
type Model struct {
	roomVars    []string
	constraints []string
	emitted     map[string]bool
	variables   map[string]bool
}

func newModel(rooms []int64) *Model {
	return &Model{
		roomVars: lo.Map(rooms, func(room int64, _ int) string {
			return RoomVarName(room)
		}),
		emitted:   make(map[string]bool),
		variables: make(map[string]bool),
	}
}

func (m *Model) addConstraint(row string) {
	if m.emitted[row] {
		return
	}
	m.emitted[row] = true
	m.constraints = append(m.constraints, row)
}

func (m *Model) addVariable(name string) {
	m.variables[name] = true
}

// Constraints returns the emitted rows in emission order.
func (m *Model) Constraints() []string {
	return slices.Clone(m.constraints)
}

// Variables returns the created decision-variable names, lexicographically
// sorted as they appear in the Binary block.
func (m *Model) Variables() []string {
	names := lo.Keys(m.variables)
	slices.Sort(names)
	return names
}

// Render produces the full model text. The objective minimizes the sum of the
// room-usage indicators; the Binary block declares every created decision
// variable followed by every room indicator, both lexicographically sorted.
func (m *Model) Render() string {
	var builder strings.Builder

	builder.WriteString("Minimize\n")
	fmt.Fprintf(&builder, " obj: %s\n", strings.Join(m.roomVars, " + "))
	builder.WriteString("\nSubject To\n")
	for _, row := range m.constraints {
		fmt.Fprintf(&builder, " %s\n", row)
	}

	builder.WriteString("\nBinary\n")
	for _, name := range m.Variables() {
		fmt.Fprintf(&builder, " %s\n", name)
	}
	roomVars := slices.Clone(m.roomVars)
	slices.Sort(roomVars)
	for _, name := range roomVars {
		fmt.Fprintf(&builder, " %s\n", name)
	}
	builder.WriteString("End\n")

	return builder.String()
}

// WriteFile renders the model fully in memory and replaces the destination in
// one rename, so a failure mid-write cannot leave a parseable-but-truncated
// artifact behind.
func (m *Model) WriteFile(path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("cannot create temporary model file: %w", err)
	}
	defer os.Remove(tmp.Name())

	// CreateTemp creates 0600; the model is a shared artifact like the other
	// outputs, so widen before the rename.
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("cannot set model file permissions: %w", err)
	}
	if _, err := tmp.WriteString(m.Render()); err != nil {
		tmp.Close()
		return fmt.Errorf("cannot write model file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cannot close model file: %w", err)
	}

	return os.Rename(tmp.Name(), path)
}
