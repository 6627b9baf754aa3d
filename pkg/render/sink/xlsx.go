package sink

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/stowage/pkg/scene"
)

// Sheet names of the manifest workbook.
const (
	SheetItems   = "Items"
	SheetSummary = "Summary"
)

var itemHeader = []interface{}{"Index", "ID", "Column", "Row", "X", "Y", "Z", "Width", "Height", "Depth", "Inside Length"}

// RenderXLSX renders an item manifest: one row per item on the Items
// sheet and the parameters plus analysis on the Summary sheet.
func RenderXLSX(s scene.Scene, r scene.Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetItems); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return nil, fmt.Errorf("add sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("style: %w", err)
	}

	if err := writeItems(f, s, bold); err != nil {
		return nil, err
	}
	if err := writeSummary(f, s.Params, r, bold); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeItems(f *excelize.File, s scene.Scene, bold int) error {
	if err := f.SetSheetRow(SheetItems, "A1", &itemHeader); err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(itemHeader), 1)
	if err := f.SetCellStyle(SheetItems, "A1", last, bold); err != nil {
		return err
	}

	end := s.Params.Length / 2
	for i, it := range s.Items {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{
			it.Index, it.ID, it.Column, it.Row,
			it.Position.X, it.Position.Y, it.Position.Z,
			it.Size.X, it.Size.Y, it.Size.Z,
			it.Bounds().Max.X <= end,
		}
		if err := f.SetSheetRow(SheetItems, cell, &row); err != nil {
			return fmt.Errorf("item %d: %w", it.Index, err)
		}
	}
	return nil
}

func writeSummary(f *excelize.File, p scene.Params, r scene.Report, bold int) error {
	rows := [][]interface{}{
		{"Parameter", "Value"},
		{"Length (m)", p.Length},
		{"Width (m)", p.Width},
		{"Height (m)", p.Height},
		{"Item width (m)", p.ItemWidth},
		{"Item height (m)", p.ItemHeight},
		{"Items", p.NumItems},
		{"Gap (m)", p.Gap},
		{},
		{"Analysis", ""},
		{"Columns", r.Columns},
		{"Column capacity", r.ColumnCapacity},
		{"Items past container end", r.ItemsOutside},
		{"Items in door swing", r.ItemsInDoorSwing},
		{"Wider than container", r.ExceedsWidth},
		{"Taller than container", r.TallerThanContainer},
	}
	for _, w := range r.Warnings {
		rows = append(rows, []interface{}{"Warning", w})
	}
	for _, n := range r.Notes {
		rows = append(rows, []interface{}{"Note", n})
	}

	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(SheetSummary, cell, &row); err != nil {
			return fmt.Errorf("summary row %d: %w", i+1, err)
		}
	}
	for _, header := range []string{"A1", "A10"} {
		if err := f.SetCellStyle(SheetSummary, header, header, bold); err != nil {
			return err
		}
	}
	return f.SetColWidth(SheetSummary, "A", "A", 26)
}
