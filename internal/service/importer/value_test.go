package importer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"envanter/internal/storage"
)

func TestCoerce(t *testing.T) {
	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		raw       string
		fieldType storage.FieldType
		want      Value
	}{
		{"text trimmed", "  Haitian  ", storage.FieldText, Value{Kind: KindText, Text: "Haitian"}},
		{"choice is text", "Hidrolik", storage.FieldChoice, Value{Kind: KindText, Text: "Hidrolik"}},
		{"number dot", "12.5", storage.FieldNumber, Value{Kind: KindNumber, Number: 12.5}},
		{"number comma", "12,5", storage.FieldNumber, Value{Kind: KindNumber, Number: 12.5}},
		{"number negative", "-3", storage.FieldNumber, Value{Kind: KindNumber, Number: -3}},
		{"number garbage", "on iki", storage.FieldNumber, Value{Kind: KindInvalid, Raw: "on iki", Expected: storage.FieldNumber}},
		{"number thousands", "1,234.5", storage.FieldNumber, Value{Kind: KindInvalid, Raw: "1,234.5", Expected: storage.FieldNumber}},
		{"number exponent", "1.5E+03", storage.FieldNumber, Value{Kind: KindNumber, Number: 1500}},
		{"number NaN", "NaN", storage.FieldNumber, Value{Kind: KindInvalid, Raw: "NaN", Expected: storage.FieldNumber}},
		{"number Inf", "Inf", storage.FieldNumber, Value{Kind: KindInvalid, Raw: "Inf", Expected: storage.FieldNumber}},
		{"number -Infinity", "-Infinity", storage.FieldNumber, Value{Kind: KindInvalid, Raw: "-Infinity", Expected: storage.FieldNumber}},
		{"number overflow", "1e999", storage.FieldNumber, Value{Kind: KindInvalid, Raw: "1e999", Expected: storage.FieldNumber}},
		{"number hex", "0x1p4", storage.FieldNumber, Value{Kind: KindInvalid, Raw: "0x1p4", Expected: storage.FieldNumber}},
		{"number underscores", "1_000", storage.FieldNumber, Value{Kind: KindInvalid, Raw: "1_000", Expected: storage.FieldNumber}},
		{"date iso", "2024-03-15", storage.FieldDate, Value{Kind: KindDate, Date: day}},
		{"date dotted", "15.03.2024", storage.FieldDate, Value{Kind: KindDate, Date: day}},
		{"date slashed", "15/03/2024", storage.FieldDate, Value{Kind: KindDate, Date: day}},
		{"date excel serial", "45366", storage.FieldDate, Value{Kind: KindDate, Date: day}},
		{"date infinite serial", "Inf", storage.FieldDate, Value{Kind: KindInvalid, Raw: "Inf", Expected: storage.FieldDate}},
		{"date garbage", "dün", storage.FieldDate, Value{Kind: KindInvalid, Raw: "dün", Expected: storage.FieldDate}},
		{"bool evet", "Evet", storage.FieldBoolean, Value{Kind: KindBool, Bool: true}},
		{"bool hayır", "HAYIR", storage.FieldBoolean, Value{Kind: KindBool, Bool: false}},
		{"bool one", "1", storage.FieldBoolean, Value{Kind: KindBool, Bool: true}},
		{"bool garbage", "belki", storage.FieldBoolean, Value{Kind: KindInvalid, Raw: "belki", Expected: storage.FieldBoolean}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := coerce(tt.raw, tt.fieldType)
			assert.Equal(t, tt.want.Kind, got.Kind)
			assert.Equal(t, tt.want.Text, got.Text)
			assert.Equal(t, tt.want.Number, got.Number)
			assert.True(t, tt.want.Date.Equal(got.Date), "date: want %v, got %v", tt.want.Date, got.Date)
			assert.Equal(t, tt.want.Bool, got.Bool)
			assert.Equal(t, tt.want.Raw, got.Raw)
			assert.Equal(t, tt.want.Expected, got.Expected)
		})
	}
}

func TestValueAny(t *testing.T) {
	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "x", Value{Kind: KindText, Text: "x"}.Any())
	assert.Equal(t, 4.5, Value{Kind: KindNumber, Number: 4.5}.Any())
	assert.Equal(t, day, Value{Kind: KindDate, Date: day}.Any())
	assert.Equal(t, true, Value{Kind: KindBool, Bool: true}.Any())
}
