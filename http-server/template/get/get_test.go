package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"envanter/internal/storage"
)

// MockProvider реализует интерфейс FieldTemplateProvider для тестов
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) GetCategory(ctx context.Context, id string) (*storage.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.Category), args.Error(1)
}

func (m *MockProvider) GetFieldTemplates(ctx context.Context, categoryID string) ([]storage.FieldTemplate, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.FieldTemplate), args.Error(1)
}

func floatPtr(f float64) *float64 { return &f }

func get(provider FieldTemplateProvider, categoryID string) *httptest.ResponseRecorder {
	router := chi.NewRouter()
	router.Get("/api/categories/{categoryID}/templates", GetFieldTemplates(slog.Default(), provider))

	req := httptest.NewRequest(http.MethodGet, "/api/categories/"+categoryID+"/templates", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

// Тест: успешное получение полей категории
func TestGetFieldTemplates_Success(t *testing.T) {
	mockStorage := new(MockProvider)

	fields := []storage.FieldTemplate{
		{CategoryID: "enj", FieldName: "Seri No", FieldType: storage.FieldText, Required: true, DisplayOrder: 1},
		{CategoryID: "enj", FieldName: "Kapama Kuvveti", FieldType: storage.FieldNumber,
			Min: floatPtr(10), Max: floatPtr(5000), DisplayOrder: 2},
	}

	mockStorage.On("GetCategory", mock.Anything, "enj").Return(&storage.Category{ID: "enj", Name: "Enjeksiyon"}, nil)
	mockStorage.On("GetFieldTemplates", mock.Anything, "enj").Return(fields, nil)

	rr := get(mockStorage, "enj")

	require.Equal(t, http.StatusOK, rr.Code)

	var resp Response
	require.NoError(t, render.DecodeJSON(strings.NewReader(rr.Body.String()), &resp))
	assert.Equal(t, "Enjeksiyon", resp.Category.Name)
	assert.Equal(t, fields, resp.Fields)

	mockStorage.AssertExpectations(t)
}

// Тест: категория не найдена
func TestGetFieldTemplates_CategoryNotFound(t *testing.T) {
	mockStorage := new(MockProvider)
	mockStorage.On("GetCategory", mock.Anything, "yok").Return(nil, storage.ErrCategoryNotFound)

	rr := get(mockStorage, "yok")

	assert.Equal(t, http.StatusNotFound, rr.Code)
	mockStorage.AssertNotCalled(t, "GetFieldTemplates", mock.Anything, mock.Anything)
}

// Тест: у категории нет полей
func TestGetFieldTemplates_Empty(t *testing.T) {
	mockStorage := new(MockProvider)
	mockStorage.On("GetCategory", mock.Anything, "bos").Return(&storage.Category{ID: "bos"}, nil)
	mockStorage.On("GetFieldTemplates", mock.Anything, "bos").Return([]storage.FieldTemplate{}, nil)

	rr := get(mockStorage, "bos")

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

// Тест: ошибка базы данных
func TestGetFieldTemplates_DBError(t *testing.T) {
	mockStorage := new(MockProvider)
	mockStorage.On("GetCategory", mock.Anything, "enj").Return(&storage.Category{ID: "enj"}, nil)
	mockStorage.On("GetFieldTemplates", mock.Anything, "enj").Return(nil, errors.New("connection refused"))

	rr := get(mockStorage, "enj")

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "Internal server error")
}
