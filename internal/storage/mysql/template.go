package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"envanter/internal/storage"
)

func (s *Storage) GetCategory(ctx context.Context, id string) (*storage.Category, error) {
	const op = "storage.mysql.GetCategory"

	query := `SELECT id, name FROM inventory_categories WHERE id = ?`

	category := &storage.Category{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(&category.ID, &category.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: id=%q: %w", op, id, storage.ErrCategoryNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return category, nil
}

// GetFieldTemplates возвращает поля категории в порядке отображения.
// Пустой результат — не ошибка, решение принимает вызывающий.
func (s *Storage) GetFieldTemplates(ctx context.Context, categoryID string) ([]storage.FieldTemplate, error) {
	const op = "storage.mysql.GetFieldTemplates"

	query := `
		SELECT category_id, field_name, field_type, is_required, options, min_value, max_value,
		       display_group, display_order
		FROM inventory_field_templates
		WHERE category_id = ?
		ORDER BY display_order, id
	`

	rows, err := s.db.QueryContext(ctx, query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var templates []storage.FieldTemplate
	for rows.Next() {
		var (
			t           storage.FieldTemplate
			optionsJSON sql.NullString
			minValue    sql.NullFloat64
			maxValue    sql.NullFloat64
		)

		err := rows.Scan(&t.CategoryID, &t.FieldName, &t.FieldType, &t.Required, &optionsJSON,
			&minValue, &maxValue, &t.DisplayGroup, &t.DisplayOrder)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}

		if optionsJSON.Valid && optionsJSON.String != "" {
			if err := json.Unmarshal([]byte(optionsJSON.String), &t.Options); err != nil {
				return nil, fmt.Errorf("%s: options of %q: %w", op, t.FieldName, err)
			}
		}
		if minValue.Valid {
			t.Min = &minValue.Float64
		}
		if maxValue.Valid {
			t.Max = &maxValue.Float64
		}

		templates = append(templates, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}

	return templates, nil
}
