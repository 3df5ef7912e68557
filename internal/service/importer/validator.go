package importer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"envanter/internal/storage"
)

func rowMessage(rowIndex int, reason string) string {
	return fmt.Sprintf("Satır %d: %s", rowIndex+1, reason)
}

// validate проверяет запись по шаблону категории в порядке полей и
// останавливается на первом нарушении. Пустая строка — запись корректна.
func validate(c Candidate, templates []storage.FieldTemplate) string {
	for _, tmpl := range templates {
		if reason := checkField(c.Record.Fields, tmpl); reason != "" {
			return rowMessage(c.RowIndex, reason)
		}
	}
	return ""
}

func checkField(fields map[string]Value, tmpl storage.FieldTemplate) string {
	v, present := fields[tmpl.FieldName]
	if !present {
		if tmpl.Required {
			return fmt.Sprintf("%s alanı zorunludur", tmpl.FieldName)
		}
		return ""
	}

	if !v.Valid() {
		return typeReason(tmpl.FieldName, v.Expected)
	}

	switch tmpl.FieldType {
	case storage.FieldNumber:
		if tmpl.Min != nil && v.Number < *tmpl.Min {
			return fmt.Sprintf("%s alanı en az %s olmalıdır", tmpl.FieldName, formatBound(*tmpl.Min))
		}
		if tmpl.Max != nil && v.Number > *tmpl.Max {
			return fmt.Sprintf("%s alanı en fazla %s olmalıdır", tmpl.FieldName, formatBound(*tmpl.Max))
		}
	case storage.FieldText, storage.FieldChoice:
		n := float64(utf8.RuneCountInString(v.Text))
		if tmpl.Min != nil && n < *tmpl.Min {
			return fmt.Sprintf("%s alanı en az %s karakter olmalıdır", tmpl.FieldName, formatBound(*tmpl.Min))
		}
		if tmpl.Max != nil && n > *tmpl.Max {
			return fmt.Sprintf("%s alanı en fazla %s karakter olmalıdır", tmpl.FieldName, formatBound(*tmpl.Max))
		}
	}

	if tmpl.FieldType == storage.FieldChoice && !hasOption(tmpl.Options, v.Text) {
		return fmt.Sprintf("%s alanı için geçersiz seçenek: %s (izin verilenler: %s)",
			tmpl.FieldName, v.Text, strings.Join(tmpl.Options, ", "))
	}

	return ""
}

func typeReason(field string, expected storage.FieldType) string {
	switch expected {
	case storage.FieldNumber:
		return fmt.Sprintf("%s alanı geçerli bir sayı olmalıdır", field)
	case storage.FieldDate:
		return fmt.Sprintf("%s alanı geçerli bir tarih olmalıdır", field)
	case storage.FieldBoolean:
		return fmt.Sprintf("%s alanı evet/hayır olmalıdır", field)
	}
	return fmt.Sprintf("%s alanı geçersiz", field)
}

func hasOption(options []string, value string) bool {
	for _, o := range options {
		if strings.TrimSpace(o) == value {
			return true
		}
	}
	return false
}

func formatBound(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
