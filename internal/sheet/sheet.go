// Package sheet читает первую вкладку xlsx-файла в набор строк "заголовок → ячейка".
package sheet

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	ErrInvalidWorkbook = errors.New("invalid workbook")
	ErrNoRows          = errors.New("sheet has no data rows")
)

// Row — одна строка данных. Ключи — заголовки первой строки без пробелов по краям.
type Row map[string]string

// ReadRows возвращает строки данных первой вкладки. Полностью пустые строки
// пропускаются, столбцы без заголовка игнорируются, при повторе заголовка
// побеждает первый столбец.
func ReadRows(r io.Reader) ([]Row, error) {
	const op = "sheet.ReadRows"

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrInvalidWorkbook, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrNoRows)
	}

	// сырые значения: даты приходят серийными числами Excel, без форматирования
	raw, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrInvalidWorkbook, err)
	}
	if len(raw) < 2 {
		return nil, fmt.Errorf("%s: %w", op, ErrNoRows)
	}

	headers := make([]string, len(raw[0]))
	seen := make(map[string]bool, len(raw[0]))
	for i, h := range raw[0] {
		h = strings.TrimSpace(h)
		if h == "" || seen[h] {
			continue
		}
		seen[h] = true
		headers[i] = h
	}

	rows := make([]Row, 0, len(raw)-1)
	for _, cells := range raw[1:] {
		row := make(Row, len(headers))
		blank := true
		for i, header := range headers {
			if header == "" || i >= len(cells) {
				continue
			}
			row[header] = cells[i]
			if strings.TrimSpace(cells[i]) != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrNoRows)
	}

	return rows, nil
}
