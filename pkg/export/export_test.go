package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() Table {
	return Table{
		Title:   "Class summaries",
		Columns: []string{"class_code", "last_seen", "count"},
		Rows: [][]string{
			{"5b", "2026-03-14T09:30:00Z", "3"},
			{"6a", "2026-03-13T15:00:00Z", "1"},
		},
	}
}

func TestCSVRender(t *testing.T) {
	content, err := NewCSVExporter().Render(sampleTable())
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "class_code,last_seen,count", lines[0])
	assert.Equal(t, "5b,2026-03-14T09:30:00Z,3", lines[1])
}

func TestCSVRejectsEmptyColumns(t *testing.T) {
	_, err := NewCSVExporter().Render(Table{})
	assert.Error(t, err)
}

func TestCSVRejectsRaggedRows(t *testing.T) {
	table := sampleTable()
	table.Rows = append(table.Rows, []string{"too", "short"})
	_, err := NewCSVExporter().Render(table)
	assert.Error(t, err)
}

func TestPDFRender(t *testing.T) {
	content, err := NewPDFExporter().Render(sampleTable())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "%PDF"))
}
