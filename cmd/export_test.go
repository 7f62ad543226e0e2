package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
	"gopkg.in/yaml.v3"

	"github.com/webgap/leadscout/internal/leads"
)

func TestExportLeads_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leads.xlsx")
	sample := []leads.QualifiedLead{
		qualifiedLead("Upali's Kitchen", 150),
		qualifiedLead("Galle Face Cafe", 20),
	}

	require.NoError(t, exportLeads(path, sample))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 1)

	sheet := f.Sheets[0]
	require.Len(t, sheet.Rows, 3) // header + 2 leads
	assert.Equal(t, "Name", sheet.Rows[0].Cells[0].Value)
	assert.Equal(t, "Upali's Kitchen", sheet.Rows[1].Cells[0].Value)
	assert.Equal(t, "94771234567", sheet.Rows[1].Cells[5].Value)
	assert.Contains(t, sheet.Rows[1].Cells[6].Value, "wa.me/94771234567")
}

func TestExportLeads_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leads.yaml")
	sample := []leads.QualifiedLead{qualifiedLead("Upali's Kitchen", 150)}

	require.NoError(t, exportLeads(path, sample))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	require.Len(t, decoded, 1)
}

func TestExportLeads_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leads.json")
	sample := []leads.QualifiedLead{qualifiedLead("Upali's Kitchen", 150)}

	require.NoError(t, exportLeads(path, sample))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded []leads.QualifiedLead
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "Upali's Kitchen", decoded[0].Name)
}

func TestExportLeads_UnsupportedFormat(t *testing.T) {
	err := exportLeads(filepath.Join(t.TempDir(), "leads.csv"), nil)
	assert.Error(t, err)
}
