package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"gopkg.in/yaml.v3"

	"github.com/webgap/leadscout/internal/leads"
	"github.com/webgap/leadscout/internal/outreach"
	"github.com/webgap/leadscout/internal/store"
)

var leadSheetHeader = []string{"Name", "Category", "Score", "Reviews", "Rating", "Phone", "WhatsApp", "Address"}

// exportLeads writes qualified leads to path; the extension picks the format.
func exportLeads(path string, qualified []leads.QualifiedLead) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return writeLeadsXLSX(path, qualified)
	case ".yaml", ".yml":
		return writeMarshaled(path, qualified, yaml.Marshal)
	case ".json":
		return writeMarshaled(path, qualified, marshalJSON)
	default:
		return eris.Errorf("export: unsupported format %q", filepath.Ext(path))
	}
}

// exportRecords writes pipeline records to path; the extension picks the format.
func exportRecords(path string, records []store.Record) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		qualified := make([]leads.QualifiedLead, len(records))
		for i, rec := range records {
			qualified[i] = rec.Lead
		}
		return writeLeadsXLSX(path, qualified)
	case ".yaml", ".yml":
		return writeMarshaled(path, records, yaml.Marshal)
	case ".json":
		return writeMarshaled(path, records, marshalJSON)
	default:
		return eris.Errorf("export: unsupported format %q", filepath.Ext(path))
	}
}

func writeLeadsXLSX(path string, qualified []leads.QualifiedLead) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Leads")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, col := range leadSheetHeader {
		header.AddCell().Value = col
	}

	for _, lead := range qualified {
		row := sheet.AddRow()
		row.AddCell().Value = lead.Name
		row.AddCell().Value = lead.PrimaryCategory
		row.AddCell().Value = string(lead.Score)
		row.AddCell().SetInt(lead.UserRatingsTotal)
		row.AddCell().SetFloat(lead.Rating)
		row.AddCell().Value = lead.NormalizedPhone
		row.AddCell().Value = outreach.BuildMessageLink(lead.NormalizedPhone, "")
		row.AddCell().Value = lead.Address
	}

	return eris.Wrapf(file.Save(path), "export: save %s", path)
}

func writeMarshaled[T any](path string, v T, marshal func(any) ([]byte, error)) error {
	data, err := marshal(v)
	if err != nil {
		return eris.Wrap(err, "export: marshal")
	}
	return eris.Wrapf(os.WriteFile(path, data, 0o644), "export: write %s", path)
}

func marshalJSON(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}
