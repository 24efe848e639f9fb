package export

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Title:   "Attendance CS201 section 3",
		Headers: []string{"date", "studentId", "status"},
		Rows: []map[string]string{
			{"date": "2024-01-08", "studentId": "s1", "status": "Present"},
			{"date": "2024-01-08", "studentId": "s2", "status": "Absent"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "date,studentId,status", lines[0])
	assert.Equal(t, "2024-01-08,s2,Absent", lines[2])
}

func TestExportersRequireHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
	_, err = NewPDFExporter().Render(Dataset{})
	assert.Error(t, err)
	_, err = NewXLSXExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "%PDF"))
}

func TestXLSXExporterRender(t *testing.T) {
	out, err := NewXLSXExporter().Render(sampleDataset())
	require.NoError(t, err)
	// xlsx files are zip archives
	assert.Equal(t, "PK", string(out[:2]))
}

func TestICSExporterRender(t *testing.T) {
	start := time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)
	out, err := NewICSExporter("").Render("CSE 2024 A", []CalendarEvent{{
		UID:     "slot-1@sams",
		Summary: "CS201",
		Start:   start,
		End:     start.Add(time.Hour),
		Weekly:  true,
	}})
	require.NoError(t, err)
	body := string(out)
	assert.Contains(t, body, "BEGIN:VEVENT")
	assert.Contains(t, body, "RRULE:FREQ=WEEKLY;BYDAY=MO")
	assert.Contains(t, body, "SUMMARY:CS201")
}

func TestICSExporterRejectsInvertedEvent(t *testing.T) {
	start := time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)
	_, err := NewICSExporter("").Render("", []CalendarEvent{{UID: "x", Start: start, End: start}})
	assert.Error(t, err)
}
