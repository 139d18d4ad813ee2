package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRender(t *testing.T) {
	exporter := NewCSVExporter()

	out, err := exporter.Render(Dataset{
		Headers: []string{"Seat", "First Name", "Last Name"},
		Rows: []map[string]string{
			{"Seat": "1A", "First Name": "Ada", "Last Name": "Lovelace"},
			{"Seat": "1B", "First Name": "Alan", "Last Name": "Turing"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Seat,First Name,Last Name\n1A,Ada,Lovelace\n1B,Alan,Turing\n", string(out))
}

func TestCSVExporterMissingCells(t *testing.T) {
	exporter := NewCSVExporter()

	out, err := exporter.Render(Dataset{
		Headers: []string{"Seat", "Email"},
		Rows:    []map[string]string{{"Seat": "2C"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Seat,Email\n2C,\n", string(out))
}

func TestCSVExporterNoHeaders(t *testing.T) {
	exporter := NewCSVExporter()

	_, err := exporter.Render(Dataset{})
	require.Error(t, err)
}
