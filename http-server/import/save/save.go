package save

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"envanter/internal/middleware/auth"
	"envanter/internal/service/importer"
	"envanter/internal/sheet"
)

const fileField = "file"

type InventoryImporter interface {
	Import(ctx context.Context, categoryID string, rows []sheet.Row) (importer.Result, error)
}

type Response struct {
	Message string `json:"message"`
	importer.Result
}

type ErrorResponse struct {
	Message string `json:"message"`
}

// ImportInventory принимает xlsx в multipart-поле "file" и импортирует его строки
// в категорию из пути. Построчные ошибки не меняют статус ответа: клиент
// получает 200 со счётчиками и первыми сообщениями.
func ImportInventory(log *slog.Logger, imp InventoryImporter, maxBytes int64, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.import.ImportInventory"

		categoryID := chi.URLParam(r, "categoryID")
		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("category_id", categoryID),
		)

		if !auth.CanEdit(r.Context()) {
			log.Warn("import rejected: no edit permission")
			http.Error(w, "Bu işlem için yetkiniz yok", http.StatusForbidden)
			return
		}

		if categoryID == "" {
			http.Error(w, "Kategori belirtilmedi", http.StatusBadRequest)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

		file, header, err := r.FormFile(fileField)
		if err != nil {
			var tooLarge *http.MaxBytesError
			switch {
			case errors.As(err, &tooLarge):
				log.Warn("upload too large", slog.Int64("limit", tooLarge.Limit))
				http.Error(w, fmt.Sprintf("Dosya boyutu sınırı aşıldı (en fazla %d bayt)", tooLarge.Limit), http.StatusBadRequest)
			case errors.Is(err, http.ErrMissingFile):
				http.Error(w, "Dosya yüklenmedi", http.StatusBadRequest)
			default:
				log.Warn("failed to read upload", slog.String("error", err.Error()))
				http.Error(w, "Yükleme okunamadı", http.StatusBadRequest)
			}
			return
		}
		defer file.Close()

		rows, err := sheet.ReadRows(file)
		if err != nil {
			switch {
			case errors.Is(err, sheet.ErrNoRows):
				http.Error(w, "Dosyada veri satırı bulunamadı", http.StatusBadRequest)
			case errors.Is(err, sheet.ErrInvalidWorkbook):
				log.Warn("invalid workbook", slog.String("file", header.Filename), slog.String("error", err.Error()))
				http.Error(w, "Geçersiz Excel dosyası", http.StatusBadRequest)
			default:
				log.Error("failed to read sheet", slog.String("error", err.Error()))
				failed(w, r, err)
			}
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		result, err := imp.Import(ctx, categoryID, rows)
		if err != nil {
			if importer.IsNotFound(err) {
				log.Warn("category or field templates not found")
				http.Error(w, "Kategori veya alan şablonu bulunamadı", http.StatusNotFound)
				return
			}

			log.Error("import failed", slog.String("error", err.Error()))
			failed(w, r, err)
			return
		}

		render.JSON(w, r, Response{
			Message: fmt.Sprintf("İçe aktarma tamamlandı: %d başarılı, %d hatalı", result.SuccessCount, result.FailureCount),
			Result:  result,
		})
	}
}

func failed(w http.ResponseWriter, r *http.Request, err error) {
	render.Status(r, http.StatusInternalServerError)
	render.JSON(w, r, ErrorResponse{Message: "İçe aktarma başarısız: " + err.Error()})
}
