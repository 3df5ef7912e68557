package sheet

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestReadRows_MapsHeadersToCells(t *testing.T) {
	buf := buildWorkbook(t, [][]any{
		{" Kod ", "Ad", "Seri No"},
		{"MAK-01", "Enjeksiyon 1", "SN-100"},
		{"MAK-02", "Enjeksiyon 2"},
	})

	rows, err := ReadRows(buf)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "MAK-01", rows[0]["Kod"])
	assert.Equal(t, "Enjeksiyon 1", rows[0]["Ad"])
	assert.Equal(t, "SN-100", rows[0]["Seri No"])

	// короткая строка: отсутствующий столбец не попадает в карту
	_, ok := rows[1]["Seri No"]
	assert.False(t, ok)
}

func TestReadRows_NumbersAreRaw(t *testing.T) {
	buf := buildWorkbook(t, [][]any{
		{"Kod", "Güç"},
		{"MAK-01", 12.5},
	})

	rows, err := ReadRows(buf)
	require.NoError(t, err)
	assert.Equal(t, "12.5", rows[0]["Güç"])
}

func TestReadRows_SkipsBlankRowsAndColumns(t *testing.T) {
	buf := buildWorkbook(t, [][]any{
		{"Kod", "", "Kod", "Ad"},
		{"MAK-01", "ignored", "dup", "A"},
		{"", "", "", "  "},
		{"MAK-02", "", "", "B"},
	})

	rows, err := ReadRows(buf)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "MAK-01", rows[0]["Kod"])
	assert.Equal(t, "MAK-02", rows[1]["Kod"])
	assert.Len(t, rows[0], 2)
}

func TestReadRows_HeaderOnly(t *testing.T) {
	buf := buildWorkbook(t, [][]any{{"Kod", "Ad"}})

	_, err := ReadRows(buf)
	assert.ErrorIs(t, err, ErrNoRows)
}

func TestReadRows_NotAWorkbook(t *testing.T) {
	_, err := ReadRows(strings.NewReader("kod;ad\nMAK-01;A\n"))
	assert.ErrorIs(t, err, ErrInvalidWorkbook)
}
