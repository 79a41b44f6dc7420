package export

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/mamadbah2/cement/internal/currency"
	"github.com/mamadbah2/cement/internal/domain/models"
)

const (
	SheetName      = "Sales Report"
	DateFormat     = "dd-mmm-yyyy"
	CurrencyFormat = "₦#,##0.00;[Red]-₦#,##0.00"

	headerFill = "4F46E5"
	zebraFill  = "EEF2FF"
	maxWidth   = 60
)

type columnKind int

const (
	kindText columnKind = iota
	kindDate
	kindInt
	kindCurrency
	kindNotes
)

var columnKinds = []columnKind{
	kindDate, kindText, kindText, kindInt,
	kindCurrency, kindCurrency, kindCurrency, kindCurrency,
	kindNotes, kindCurrency,
}

// FileName is the download name for a report generated on date.
func FileName(date models.Date) string {
	return fmt.Sprintf("Sales_Report_%s.xlsx", date)
}

// WriteWorkbook writes sales as a styled xlsx workbook to w.
func WriteWorkbook(w io.Writer, sales []models.SaleRecord) error {
	if len(sales) == 0 {
		return ErrNoData
	}
	rows := Table(sales)

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	styles, err := newStyleSet(f)
	if err != nil {
		return err
	}

	for i, h := range Headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return fmt.Errorf("write header %s: %w", cell, err)
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(Headers), 1)
	if err := f.SetCellStyle(SheetName, "A1", last, styles.header); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	widths := make([]int, len(Headers))
	for i, h := range Headers {
		widths[i] = utf8.RuneCountInString(h)
	}

	for r, row := range rows {
		rowNum := r + 2
		zebra := r%2 == 1
		for c, value := range cellValues(row) {
			cell, _ := excelize.CoordinatesToCellName(c+1, rowNum)
			if err := f.SetCellValue(SheetName, cell, value); err != nil {
				return fmt.Errorf("write cell %s: %w", cell, err)
			}
			if err := f.SetCellStyle(SheetName, cell, cell, styles.cell(columnKinds[c], zebra)); err != nil {
				return fmt.Errorf("style cell %s: %w", cell, err)
			}
		}
		for c, text := range displayValues(row) {
			widths[c] = max(widths[c], utf8.RuneCountInString(text))
		}
	}

	for c, width := range widths {
		col, _ := excelize.ColumnNumberToName(c + 1)
		if err := f.SetColWidth(SheetName, col, col, float64(min(width+2, maxWidth))); err != nil {
			return fmt.Errorf("set width of %s: %w", col, err)
		}
	}

	lastCell, _ := excelize.CoordinatesToCellName(len(Headers), len(rows)+1)
	if err := f.AutoFilter(SheetName, "A1:"+lastCell, nil); err != nil {
		return fmt.Errorf("add autofilter: %w", err)
	}
	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// cellValues are the typed values stored in the workbook.
func cellValues(r Row) []interface{} {
	return []interface{}{
		r.Date.Time(),
		r.ShopName,
		string(r.StockType),
		r.BagsSold,
		r.PricePerBag.InexactFloat64(),
		r.ExpectedRevenue.InexactFloat64(),
		r.TotalTransfer.InexactFloat64(),
		r.Expenses.InexactFloat64(),
		r.Notes,
		r.Discrepancy.InexactFloat64(),
	}
}

// displayValues approximate what each cell shows, for column widths.
func displayValues(r Row) []string {
	return []string{
		r.Date.Time().Format("02-Jan-2006"),
		r.ShopName,
		string(r.StockType),
		fmt.Sprint(r.BagsSold),
		currency.Format(r.PricePerBag),
		currency.Format(r.ExpectedRevenue),
		currency.Format(r.TotalTransfer),
		currency.Format(r.Expenses),
		r.Notes,
		currency.Format(r.Discrepancy),
	}
}

type styleSet struct {
	header int
	plain  map[columnKind]int
	zebra  map[columnKind]int
}

func (s styleSet) cell(kind columnKind, zebra bool) int {
	if zebra {
		return s.zebra[kind]
	}
	return s.plain[kind]
}

func newStyleSet(f *excelize.File) (styleSet, error) {
	border := []excelize.Border{
		{Type: "left", Color: "D1D5DB", Style: 1},
		{Type: "right", Color: "D1D5DB", Style: 1},
		{Type: "top", Color: "D1D5DB", Style: 1},
		{Type: "bottom", Color: "D1D5DB", Style: 1},
	}

	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{headerFill}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    border,
	})
	if err != nil {
		return styleSet{}, fmt.Errorf("create header style: %w", err)
	}

	set := styleSet{header: header, plain: map[columnKind]int{}, zebra: map[columnKind]int{}}
	dateFmt, currencyFmt := DateFormat, CurrencyFormat

	for _, kind := range []columnKind{kindText, kindDate, kindInt, kindCurrency, kindNotes} {
		for _, zebra := range []bool{false, true} {
			style := &excelize.Style{Border: border, Alignment: &excelize.Alignment{Vertical: "top"}}
			switch kind {
			case kindDate:
				style.CustomNumFmt = &dateFmt
			case kindInt:
				style.NumFmt = 1
			case kindCurrency:
				style.CustomNumFmt = &currencyFmt
			case kindNotes:
				style.Alignment.WrapText = true
			}
			if zebra {
				style.Fill = excelize.Fill{Type: "pattern", Color: []string{zebraFill}, Pattern: 1}
			}

			id, err := f.NewStyle(style)
			if err != nil {
				return styleSet{}, fmt.Errorf("create cell style: %w", err)
			}
			if zebra {
				set.zebra[kind] = id
			} else {
				set.plain[kind] = id
			}
		}
	}
	return set, nil
}
