package mysql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"

	"envanter/internal/storage"
)

const errDuplicateEntry = 1062

// Коды ошибок, вызванных содержимым конкретной записи. Остальные ответы
// сервера (нет таблицы, нет прав, read-only, deadlock) касаются всей вставки.
var rowLevelErrors = map[uint16]bool{
	errDuplicateEntry: true,
	1048:              true, // column cannot be null
	1264:              true, // out of range value
	1265:              true, // data truncated
	1366:              true, // incorrect string value
	1406:              true, // data too long
	3140:              true, // invalid JSON text
}

var keyColumns = map[storage.UniqueKey]string{
	storage.KeyCode:    "code",
	storage.KeyQRCode:  "qr_code",
	storage.KeyBarcode: "barcode",
}

// ExistingValues возвращает те из values, что уже заняты в столбце key.
// Один запрос на вызов независимо от длины values.
func (s *Storage) ExistingValues(ctx context.Context, key storage.UniqueKey, values []string) ([]string, error) {
	const op = "storage.mysql.ExistingValues"

	column, ok := keyColumns[key]
	if !ok {
		return nil, fmt.Errorf("%s: unknown key %q", op, key)
	}
	if len(values) == 0 {
		return nil, nil
	}

	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}

	query := fmt.Sprintf(`SELECT %s FROM inventory_items WHERE %s IN (%s)`,
		column, column, placeholders(len(values)))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var found []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		found = append(found, v)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}

	return found, nil
}

// InsertItems вставляет записи по одной без общей транзакции, один запрос на
// запись: отказ строки (нарушение уникального индекса, слишком длинное
// значение) фиксируется в BulkResult.Failed и не мешает остальным. Любая
// другая ошибка (обрыв соединения, отмена контекста, нет таблицы или прав)
// прекращает вставку.
func (s *Storage) InsertItems(ctx context.Context, items []storage.Item) (storage.BulkResult, error) {
	const op = "storage.mysql.InsertItems"

	var res storage.BulkResult
	if len(items) == 0 {
		return res, nil
	}

	stmt, err := s.db.PrepareContext(ctx, `
		INSERT INTO inventory_items
			(id, code, name, description, category_id, status, fields, tags, qr_code, barcode, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return res, fmt.Errorf("%s: prepare statement: %w", op, err)
	}
	defer stmt.Close()

	for i, it := range items {
		fieldsJSON, tagsJSON, err := encodeItem(it)
		if err != nil {
			res.Failed = append(res.Failed, storage.ItemFailure{Index: i, Err: err})
			continue
		}

		_, err = stmt.ExecContext(ctx, it.ID, it.Code, it.Name, it.Description, it.CategoryID, it.Status,
			fieldsJSON, tagsJSON, it.QRCode, it.Barcode, it.CreatedAt)
		if err == nil {
			res.Inserted++
			continue
		}

		rowLevel, duplicate := classify(err)
		if !rowLevel {
			return res, fmt.Errorf("%s: %w", op, err)
		}
		res.Failed = append(res.Failed, storage.ItemFailure{Index: i, Duplicate: duplicate, Err: err})
	}

	return res, nil
}

func encodeItem(it storage.Item) (string, string, error) {
	fields := it.Fields
	if fields == nil {
		fields = map[string]any{}
	}
	tags := it.Tags
	if tags == nil {
		tags = []string{}
	}

	fieldsJSON, err := json.Marshal(fields)
	if err != nil {
		return "", "", fmt.Errorf("encode fields: %w", err)
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return "", "", fmt.Errorf("encode tags: %w", err)
	}

	return string(fieldsJSON), string(tagsJSON), nil
}

// classify отделяет отказ конкретной строки от отказа хранилища целиком.
func classify(err error) (rowLevel bool, duplicate bool) {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && rowLevelErrors[mysqlErr.Number] {
		return true, mysqlErr.Number == errDuplicateEntry
	}
	return false, false
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
