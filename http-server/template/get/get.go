package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"envanter/internal/storage"
)

// pkg/http-server/template/get/get.go

type FieldTemplateProvider interface {
	GetCategory(ctx context.Context, id string) (*storage.Category, error)
	GetFieldTemplates(ctx context.Context, categoryID string) ([]storage.FieldTemplate, error)
}

type Response struct {
	Category storage.Category        `json:"category"`
	Fields   []storage.FieldTemplate `json:"fields"`
}

// GetFieldTemplates отдаёт поля категории в порядке отображения: по ним фронтенд
// строит пустой шаблон для заполнения.
func GetFieldTemplates(log *slog.Logger, provider FieldTemplateProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.template.GetFieldTemplates"

		categoryID := chi.URLParam(r, "categoryID")
		log := log.With(slog.String("op", op), slog.String("category_id", categoryID))

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		category, err := provider.GetCategory(ctx, categoryID)
		if err != nil {
			if errors.Is(err, storage.ErrCategoryNotFound) {
				log.Warn("category not found")
				http.Error(w, "Kategori bulunamadı", http.StatusNotFound)
				return
			}

			log.Error("failed to fetch category", slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		fields, err := provider.GetFieldTemplates(ctx, categoryID)
		if err != nil {
			log.Error("failed to fetch field templates", slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		if len(fields) == 0 {
			log.Warn("category has no field templates")
			http.Error(w, "Alan şablonu bulunamadı", http.StatusNotFound)
			return
		}

		render.JSON(w, r, Response{Category: *category, Fields: fields})
	}
}
