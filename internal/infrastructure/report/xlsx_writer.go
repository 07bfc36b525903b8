package report

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/riskibarqy/fpl-xvalue/internal/domain/ranking"
	"github.com/riskibarqy/fpl-xvalue/internal/platform/logging"
	"github.com/xuri/excelize/v2"
)

const (
	DefaultPath = "players_data.xlsx"

	headerRow   = 2
	firstRow    = 3
	firstColumn = 2
)

// SheetOrder is the order category sheets are written in.
var SheetOrder = []string{
	ranking.CategoryGoalkeepers,
	ranking.CategoryDefenders,
	ranking.CategoryAttackers,
	ranking.CategoryMidfielders,
}

type column struct {
	header string
	value  func(ranking.PlayerScore) any
}

var (
	colName     = column{"Player Name", func(p ranking.PlayerScore) any { return p.Name }}
	colXG       = column{"xG", func(p ranking.PlayerScore) any { return p.Form.XG }}
	colXA       = column{"xA", func(p ranking.PlayerScore) any { return p.Form.XA }}
	colXGC      = column{"xGC", func(p ranking.PlayerScore) any { return p.Form.XGC }}
	colBonus    = column{"BP", func(p ranking.PlayerScore) any { return p.Form.Bonus }}
	colMinutes  = column{"Minutes", func(p ranking.PlayerScore) any { return p.Form.Minutes }}
	colSaves    = column{"Avg Saves", func(p ranking.PlayerScore) any { return p.Form.Saves }}
	colXPPG     = column{"xPPG", func(p ranking.PlayerScore) any { return p.XPPG }}
	colPoints   = column{"Points", func(p ranking.PlayerScore) any { return p.Form.Points }}
	colPrice    = column{"Price (£)", func(p ranking.PlayerScore) any { return p.Price }}
	colValue    = column{"Value", func(p ranking.PlayerScore) any { return p.Value }}
	colXValue   = column{"xValue", func(p ranking.PlayerScore) any { return p.XValue }}
	colPastFDR  = column{"pFDR", func(p ranking.PlayerScore) any { return optional(p.Difficulty.Past) }}
	colNextFDR  = column{"fFDR", func(p ranking.PlayerScore) any { return optional(p.Difficulty.Future) }}
	tailColumns = []column{colXPPG, colPoints, colPrice, colValue, colXValue, colPastFDR, colNextFDR}
)

// sheetColumns lists the data columns after Rank for each category.
var sheetColumns = map[string][]column{
	ranking.CategoryGoalkeepers: append([]column{colName, colXA, colXGC, colBonus, colMinutes, colSaves}, tailColumns...),
	ranking.CategoryDefenders:   append([]column{colName, colXG, colXA, colXGC, colBonus, colMinutes}, tailColumns...),
	ranking.CategoryMidfielders: append([]column{colName, colXG, colXA, colXGC, colBonus, colMinutes}, tailColumns...),
	ranking.CategoryAttackers:   append([]column{colName, colXG, colXA, colBonus, colMinutes}, tailColumns...),
}

func optional(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

// Headers returns the header row of a category sheet, Rank first.
func Headers(category string) []string {
	cols := sheetColumns[category]
	out := make([]string, 0, len(cols)+1)
	out = append(out, "Rank")
	for _, c := range cols {
		out = append(out, c.header)
	}
	return out
}

type Config struct {
	Path string
	// PositiveOnly drops rows whose xValue is not above zero.
	PositiveOnly bool
}

// Summary reports how many rows were written per sheet.
type Summary struct {
	Path string
	Rows map[string]int
}

type XLSXWriter struct {
	path         string
	positiveOnly bool
	logger       *logging.Logger
}

func NewXLSXWriter(cfg Config, logger *logging.Logger) *XLSXWriter {
	if logger == nil {
		logger = logging.Default()
	}
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		path = DefaultPath
	}

	return &XLSXWriter{
		path:         path,
		positiveOnly: cfg.PositiveOnly,
		logger:       logger,
	}
}

// Write stores the table in the workbook at the configured path. An existing
// workbook keeps its other sheets; the category sheets are cleared and
// rewritten in place.
func (w *XLSXWriter) Write(ctx context.Context, table ranking.Table) (Summary, error) {
	f, created, err := w.open()
	if err != nil {
		return Summary{}, err
	}
	defer func() {
		_ = f.Close()
	}()

	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return Summary{}, fmt.Errorf("create header style: %w", err)
	}

	summary := Summary{Path: w.path, Rows: make(map[string]int, len(SheetOrder))}
	for _, category := range SheetOrder {
		if err := ctx.Err(); err != nil {
			return Summary{}, err
		}
		written, err := w.writeSheet(f, category, table[category], boldStyle)
		if err != nil {
			return Summary{}, fmt.Errorf("write sheet %s: %w", category, err)
		}
		summary.Rows[category] = written
	}

	if created {
		// NewFile always starts with a default sheet.
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return Summary{}, fmt.Errorf("remove default sheet: %w", err)
		}
		if idx, err := f.GetSheetIndex(SheetOrder[0]); err == nil && idx >= 0 {
			f.SetActiveSheet(idx)
		}
	}

	if err := f.SaveAs(w.path); err != nil {
		return Summary{}, fmt.Errorf("save workbook %s: %w", w.path, err)
	}

	w.logger.InfoContext(ctx, "workbook saved", "path", w.path, "rows", summary.Rows, "created", created)
	return summary, nil
}

func (w *XLSXWriter) open() (*excelize.File, bool, error) {
	if _, err := os.Stat(w.path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return excelize.NewFile(), true, nil
		}
		return nil, false, fmt.Errorf("stat workbook %s: %w", w.path, err)
	}

	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return nil, false, fmt.Errorf("open workbook %s: %w", w.path, err)
	}
	return f, false, nil
}

func (w *XLSXWriter) writeSheet(f *excelize.File, category string, rows []ranking.PlayerScore, boldStyle int) (int, error) {
	idx, err := f.GetSheetIndex(category)
	if err != nil {
		return 0, err
	}
	if idx < 0 {
		if _, err := f.NewSheet(category); err != nil {
			return 0, err
		}
	} else if err := clearSheet(f, category); err != nil {
		return 0, err
	}

	headers := Headers(category)
	headerCell, err := excelize.CoordinatesToCellName(firstColumn, headerRow)
	if err != nil {
		return 0, err
	}
	if err := f.SetSheetRow(category, headerCell, &headers); err != nil {
		return 0, err
	}
	lastHeaderCell, err := excelize.CoordinatesToCellName(firstColumn+len(headers)-1, headerRow)
	if err != nil {
		return 0, err
	}
	if err := f.SetCellStyle(category, headerCell, lastHeaderCell, boldStyle); err != nil {
		return 0, err
	}

	cols := sheetColumns[category]
	rank := 0
	for _, row := range rows {
		if w.positiveOnly && row.XValue <= 0 {
			continue
		}
		rank++

		values := make([]any, 0, len(cols)+1)
		values = append(values, rank)
		for _, c := range cols {
			values = append(values, c.value(row))
		}

		cell, err := excelize.CoordinatesToCellName(firstColumn, firstRow+rank-1)
		if err != nil {
			return 0, err
		}
		if err := f.SetSheetRow(category, cell, &values); err != nil {
			return 0, err
		}
	}
	return rank, nil
}

// clearSheet empties every populated cell but keeps the sheet in its place.
func clearSheet(f *excelize.File, sheet string) error {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return err
	}
	for r, cells := range rows {
		for c := range cells {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, nil); err != nil {
				return err
			}
		}
	}
	return nil
}
