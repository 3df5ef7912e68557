package importer

import (
	"fmt"
	"strings"
	"time"

	"envanter/internal/sheet"
	"envanter/internal/storage"
)

const defaultStatus = "aktif"

// Псевдонимы заголовков фиксированных столбцов, первый найденный побеждает.
var (
	codeHeaders        = []string{"Kod", "Envanter Kodu", "Demirbaş Kodu", "Code"}
	nameHeaders        = []string{"Ad", "Adı", "İsim", "Name"}
	descriptionHeaders = []string{"Açıklama", "Description"}
	statusHeaders      = []string{"Durum", "Status"}
	tagHeaders         = []string{"Etiketler", "Tags"}
	qrHeaders          = []string{"QR Kod", "QR Kodu", "QR Code"}
	barcodeHeaders     = []string{"Barkod", "Barcode"}
)

// Record — строка файла, приведённая к модели инвентаря. Пустые QRCode/Barcode
// означают отсутствие ключа.
type Record struct {
	Code        string
	Name        string
	Description string
	CategoryID  string
	Status      string
	Fields      map[string]Value
	Tags        []string
	QRCode      string
	Barcode     string
}

// Candidate связывает запись с индексом строки. Индекс нужен только для сообщений.
type Candidate struct {
	RowIndex int
	Record   Record
}

type shaper struct {
	categoryID string
	templates  []storage.FieldTemplate
	now        func() time.Time
}

// shape никогда не возвращает ошибку: всё, что не удалось привести,
// остаётся в Fields как KindInvalid и отклоняется валидатором.
func (s *shaper) shape(rowIndex int, row sheet.Row) Candidate {
	rec := Record{
		CategoryID: s.categoryID,
		Fields:     make(map[string]Value, len(s.templates)),
	}

	for _, tmpl := range s.templates {
		raw, ok := lookup(row, tmpl.FieldName)
		if !ok {
			continue
		}
		rec.Fields[tmpl.FieldName] = coerce(raw, tmpl.FieldType)
	}

	rec.Code = firstOf(row, codeHeaders)
	if rec.Code == "" {
		rec.Code = fmt.Sprintf("INV-%d-%d", s.now().UnixMilli(), rowIndex+1)
	}

	rec.Name = firstOf(row, nameHeaders)
	if rec.Name == "" {
		rec.Name = rec.Code
	}

	rec.Description = firstOf(row, descriptionHeaders)

	rec.Status = firstOf(row, statusHeaders)
	if rec.Status == "" {
		rec.Status = defaultStatus
	}

	rec.Tags = splitTags(firstOf(row, tagHeaders))
	rec.QRCode = firstOf(row, qrHeaders)
	rec.Barcode = firstOf(row, barcodeHeaders)

	return Candidate{RowIndex: rowIndex, Record: rec}
}

func lookup(row sheet.Row, header string) (string, bool) {
	v, ok := row[header]
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func firstOf(row sheet.Row, headers []string) string {
	for _, h := range headers {
		if v, ok := lookup(row, h); ok {
			return v
		}
	}
	return ""
}

func splitTags(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' })

	tags := make([]string, 0, len(parts))
	seen := make(map[string]bool, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		tags = append(tags, p)
	}
	return tags
}

func (r Record) key(k storage.UniqueKey) string {
	switch k {
	case storage.KeyCode:
		return r.Code
	case storage.KeyQRCode:
		return r.QRCode
	case storage.KeyBarcode:
		return r.Barcode
	}
	return ""
}

func (r Record) toItem(id string, createdAt time.Time) storage.Item {
	fields := make(map[string]any, len(r.Fields))
	for name, v := range r.Fields {
		fields[name] = v.Any()
	}

	item := storage.Item{
		ID:          id,
		Code:        r.Code,
		Name:        r.Name,
		Description: r.Description,
		CategoryID:  r.CategoryID,
		Status:      r.Status,
		Fields:      fields,
		Tags:        r.Tags,
		CreatedAt:   createdAt,
	}
	if r.QRCode != "" {
		qr := r.QRCode
		item.QRCode = &qr
	}
	if r.Barcode != "" {
		bc := r.Barcode
		item.Barcode = &bc
	}

	return item
}
