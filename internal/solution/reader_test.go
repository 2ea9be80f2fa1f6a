package solution

import (
	"strings"
	"testing"

	"github.com/botcarlos-dev/HorariosIPBejaMVC/internal/schedule"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
)

func readerInput() schedule.Input {
	return schedule.Input{
		Sections: []schedule.Section{
			{ID: 1, Unit: 3, Teacher: 1, Type: 1, Duration: 2, Label: 1},
			{ID: 2, Unit: 5, Teacher: 2, Type: 3, Duration: 1, Label: 2},
		},
	}
}

func TestReadSolution(t *testing.T) {
	g := NewWithT(t)

	// Arrange
	document := `<?xml version="1.0" encoding="UTF-8"?>
<CPLEXSolution version="1.2">
 <header objectiveValue="2"/>
 <variables>
  <variable name="x1_1_1" value="1"/>
  <variable name="x1_1_2" value="1"/>
  <variable name="x2_4_7" value="1"/>
  <variable name="x1_1_3" value="0"/>
  <variable name="z_1" value="1"/>
  <variable name="z_4" value="1"/>
  <variable name="z_2" value="0"/>
 </variables>
</CPLEXSolution>`

	// Act
	decoded, err := Read(strings.NewReader(document), readerInput(), zap.NewNop())

	// Assert
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(decoded.Classes).To(Equal([]ScheduledClass{
		{Section: 1, Unit: 3, Type: 1, Label: 1, Room: 1, Period: 1},
		{Section: 1, Unit: 3, Type: 1, Label: 1, Room: 1, Period: 2},
		{Section: 2, Unit: 5, Type: 3, Label: 2, Room: 4, Period: 7},
	}))
	g.Expect(decoded.UsedRooms).To(Equal([]int64{1, 4}))
}

func TestReadSolutionSkipsMalformedEntries(t *testing.T) {
	g := NewWithT(t)

	// Arrange: malformed names, a non-numeric period suffix, an unknown
	// section and an unparsable value must be skipped, not fatal
	document := `<solution>
  <variable name="xbad" value="1"/>
  <variable name="x1_1_p" value="1"/>
  <variable name="x99_1_1" value="1"/>
  <variable name="x1_1_1" value="one"/>
  <variable name="x2_4_7" value="1"/>
  <variable name="z_" value="1"/>
  <variable name="z_4" value="1"/>
</solution>`

	// Act
	decoded, err := Read(strings.NewReader(document), readerInput(), zap.NewNop())

	// Assert
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(decoded.Classes).To(HaveLen(1))
	g.Expect(decoded.Classes[0].Section).To(Equal(int64(2)))
	g.Expect(decoded.UsedRooms).To(Equal([]int64{4}))
}

func TestReadSolutionRejectsBrokenXML(t *testing.T) {
	g := NewWithT(t)

	// Act
	_, err := Read(strings.NewReader("<solution><variable"), readerInput(), zap.NewNop())

	// Assert
	g.Expect(err).To(HaveOccurred())
}
