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

var keyFields = map[storage.UniqueKey]string{
	storage.KeyCode:    "code",
	storage.KeyQRCode:  "qr_code",
	storage.KeyBarcode: "barcode",
}

func (s *Storage) ExistingValues(ctx context.Context, key storage.UniqueKey, values []string) ([]string, error) {
	const op = "storage.mongo.ExistingValues"

	field, ok := keyFields[key]
	if !ok {
		return nil, fmt.Errorf("%s: unknown key %q", op, key)
	}
	if len(values) == 0 {
		return nil, nil
	}

	opts := options.Find().SetProjection(bson.M{field: 1, "_id": 0})

	cursor, err := s.items.Find(ctx, bson.M{field: bson.M{"$in": values}}, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer cursor.Close(ctx)

	var found []string
	for cursor.Next(ctx) {
		v, ok := cursor.Current.Lookup(field).StringValueOK()
		if ok {
			found = append(found, v)
		}
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("%s: cursor: %w", op, err)
	}

	return found, nil
}

// InsertItems выполняет неупорядоченный InsertMany: сервер пытается вставить
// каждый документ, отказы возвращаются списком с индексами.
func (s *Storage) InsertItems(ctx context.Context, items []storage.Item) (storage.BulkResult, error) {
	const op = "storage.mongo.InsertItems"

	if len(items) == 0 {
		return storage.BulkResult{}, nil
	}

	docs := make([]any, len(items))
	for i, it := range items {
		if it.Fields == nil {
			it.Fields = map[string]any{}
		}
		if it.Tags == nil {
			it.Tags = []string{}
		}
		docs[i] = it
	}

	_, err := s.items.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))

	res, err := bulkResult(err, len(docs))
	if err != nil {
		return res, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}

// bulkResult переводит ответ InsertMany в BulkResult. Ошибки записи по
// отдельным документам не считаются ошибкой вызова; write concern error и
// любые другие ошибки означают, что исход вставки неизвестен.
func bulkResult(err error, n int) (storage.BulkResult, error) {
	if err == nil {
		return storage.BulkResult{Inserted: n}, nil
	}

	var bwe mongo.BulkWriteException
	if !errors.As(err, &bwe) || bwe.WriteConcernError != nil || len(bwe.WriteErrors) == 0 {
		return storage.BulkResult{}, err
	}

	res := storage.BulkResult{Inserted: n - len(bwe.WriteErrors)}
	for _, we := range bwe.WriteErrors {
		res.Failed = append(res.Failed, storage.ItemFailure{
			Index:     we.Index,
			Duplicate: mongo.IsDuplicateKeyError(we.WriteError),
			Err:       we.WriteError,
		})
	}

	return res, nil
}
