package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"envanter/internal/storage"
)

func (s *Storage) GetCategory(ctx context.Context, id string) (*storage.Category, error) {
	const op = "storage.mongo.GetCategory"

	var category storage.Category
	err := s.categories.FindOne(ctx, bson.M{"_id": id}).Decode(&category)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: id=%q: %w", op, id, storage.ErrCategoryNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &category, nil
}

func (s *Storage) GetFieldTemplates(ctx context.Context, categoryID string) ([]storage.FieldTemplate, error) {
	const op = "storage.mongo.GetFieldTemplates"

	opts := options.Find().SetSort(bson.D{{Key: "display_order", Value: 1}, {Key: "field_name", Value: 1}})

	cursor, err := s.templates.Find(ctx, bson.M{"category_id": categoryID}, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer cursor.Close(ctx)

	var templates []storage.FieldTemplate
	if err = cursor.All(ctx, &templates); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", op, err)
	}

	return templates, nil
}
