package storage

import "time"

// UniqueKey — поле инвентаря с разреженной уникальностью (NULL не конфликтует).
type UniqueKey string

const (
	KeyCode    UniqueKey = "code"
	KeyQRCode  UniqueKey = "qr_code"
	KeyBarcode UniqueKey = "barcode"
)

var UniqueKeys = []UniqueKey{KeyCode, KeyQRCode, KeyBarcode}

type Item struct {
	ID          string         `json:"id" bson:"_id"`
	Code        string         `json:"code" bson:"code"`
	Name        string         `json:"name" bson:"name"`
	Description string         `json:"description" bson:"description"`
	CategoryID  string         `json:"category_id" bson:"category_id"`
	Status      string         `json:"status" bson:"status"`
	Fields      map[string]any `json:"fields" bson:"fields"`
	Tags        []string       `json:"tags" bson:"tags"`
	QRCode      *string        `json:"qr_code,omitempty" bson:"qr_code,omitempty"`
	Barcode     *string        `json:"barcode,omitempty" bson:"barcode,omitempty"`
	CreatedAt   time.Time      `json:"created_at" bson:"created_at"`
}

// ItemFailure — отказ хранилища по одной записи пакета. Index указывает на
// позицию в срезе, переданном в InsertItems.
type ItemFailure struct {
	Index     int
	Duplicate bool
	Err       error
}

// BulkResult — итог неупорядоченной пакетной вставки. Записи, не попавшие
// ни в Inserted, ни в Failed, считаются не обработанными (фатальная ошибка).
type BulkResult struct {
	Inserted int
	Failed   []ItemFailure
}
