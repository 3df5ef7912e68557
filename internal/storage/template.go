package storage

import "errors"

var (
	ErrCategoryNotFound  = errors.New("category not found")
	ErrTemplatesNotFound = errors.New("field templates not found")
)

type FieldType string

const (
	FieldText    FieldType = "text"
	FieldNumber  FieldType = "number"
	FieldDate    FieldType = "date"
	FieldBoolean FieldType = "boolean"
	FieldChoice  FieldType = "choice"
)

type Category struct {
	ID   string `json:"id" bson:"_id"`
	Name string `json:"name" bson:"name"`
}

// FieldTemplate описывает одно динамическое поле категории.
// Min/Max для number ограничивают значение, для text/choice — длину строки.
type FieldTemplate struct {
	CategoryID   string    `json:"category_id" bson:"category_id"`
	FieldName    string    `json:"field_name" bson:"field_name"`
	FieldType    FieldType `json:"field_type" bson:"field_type"`
	Required     bool      `json:"required" bson:"required"`
	Options      []string  `json:"options,omitempty" bson:"options,omitempty"`
	Min          *float64  `json:"min,omitempty" bson:"min,omitempty"`
	Max          *float64  `json:"max,omitempty" bson:"max,omitempty"`
	DisplayGroup string    `json:"display_group" bson:"display_group"`
	DisplayOrder int       `json:"display_order" bson:"display_order"`
}
