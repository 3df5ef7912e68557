package importer

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"envanter/internal/storage"
)

type Kind int

const (
	KindText Kind = iota + 1
	KindNumber
	KindDate
	KindBool
	// KindInvalid — ячейка заполнена, но не приводится к объявленному типу.
	KindInvalid
)

// Value — типизированное значение динамического поля.
type Value struct {
	Kind   Kind
	Text   string
	Number float64
	Date   time.Time
	Bool   bool

	// Raw и Expected заполняются только для KindInvalid.
	Raw      string
	Expected storage.FieldType
}

func (v Value) Valid() bool { return v.Kind != KindInvalid }

// Any возвращает значение в виде, пригодном для сохранения.
func (v Value) Any() any {
	switch v.Kind {
	case KindNumber:
		return v.Number
	case KindDate:
		return v.Date
	case KindBool:
		return v.Bool
	default:
		return v.Text
	}
}

var dateLayouts = []string{
	"2006-01-02",
	"02.01.2006",
	"02/01/2006",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// coerce приводит непустую ячейку к типу поля.
func coerce(raw string, fieldType storage.FieldType) Value {
	s := strings.TrimSpace(raw)

	switch fieldType {
	case storage.FieldNumber:
		if n, ok := parseNumber(s); ok {
			return Value{Kind: KindNumber, Number: n}
		}
	case storage.FieldDate:
		if d, ok := parseDate(s); ok {
			return Value{Kind: KindDate, Date: d}
		}
	case storage.FieldBoolean:
		if b, ok := parseBool(s); ok {
			return Value{Kind: KindBool, Bool: b}
		}
	default:
		return Value{Kind: KindText, Text: s}
	}

	return Value{Kind: KindInvalid, Raw: s, Expected: fieldType}
}

func parseNumber(s string) (float64, bool) {
	// "12,5" — десятичная запятая; "1,234.5" не поддерживается
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	// ParseFloat понимает также NaN, Inf, 0x1p4 и 1_000; в ячейке это не число
	if s == "" || strings.TrimLeft(s, "0123456789+-.eE") != "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, true
		}
	}

	// серийный номер даты Excel (сырое значение ячейки)
	if serial, ok := parseNumber(s); ok && serial > 0 {
		if d, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return d, true
		}
	}

	return time.Time{}, false
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "evet", "true", "1", "var", "yes", "e":
		return true, true
	case "hayır", "hayir", "false", "0", "yok", "no", "h":
		return false, true
	}
	return false, false
}
