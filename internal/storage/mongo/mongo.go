package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"envanter/internal/config"
)

const (
	categoriesCollection = "categories"
	templatesCollection  = "field_templates"
	itemsCollection      = "inventory_items"
)

type Storage struct {
	client     *mongo.Client
	categories *mongo.Collection
	templates  *mongo.Collection
	items      *mongo.Collection
}

func New(ctx context.Context, cfg config.Mongo) (*Storage, error) {
	const op = "storage.mongo.New"

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("%s: connect: %w", op, err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%s: ping: %w", op, err)
	}

	return NewWithDatabase(client, client.Database(cfg.Database)), nil
}

// NewWithDatabase собирает хранилище поверх уже подключённого клиента.
func NewWithDatabase(client *mongo.Client, db *mongo.Database) *Storage {
	return &Storage{
		client:     client,
		categories: db.Collection(categoriesCollection),
		templates:  db.Collection(templatesCollection),
		items:      db.Collection(itemsCollection),
	}
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Storage) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("storage.mongo.Close: %w", err)
	}
	return nil
}

// EnsureIndexes создаёт уникальные индексы. qr_code и barcode разреженные:
// документы без поля не конфликтуют друг с другом.
func (s *Storage) EnsureIndexes(ctx context.Context) error {
	const op = "storage.mongo.EnsureIndexes"

	_, err := s.items.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "code", Value: 1}},
			Options: options.Index().SetName("uq_items_code").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "qr_code", Value: 1}},
			Options: options.Index().SetName("uq_items_qr_code").SetUnique(true).SetSparse(true),
		},
		{
			Keys:    bson.D{{Key: "barcode", Value: 1}},
			Options: options.Index().SetName("uq_items_barcode").SetUnique(true).SetSparse(true),
		},
		{
			Keys:    bson.D{{Key: "category_id", Value: 1}},
			Options: options.Index().SetName("idx_items_category"),
		},
	})
	if err != nil {
		return fmt.Errorf("%s: items: %w", op, err)
	}

	_, err = s.templates.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "category_id", Value: 1}, {Key: "field_name", Value: 1}},
		Options: options.Index().SetName("uq_field_templates_category_field").SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("%s: field templates: %w", op, err)
	}

	return nil
}
