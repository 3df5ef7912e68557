// Package importer сверяет и сохраняет пакет записей инвентаря одной категории,
// загруженный из таблицы.
//
// Конвейер: строки → приведение по шаблону категории → проверка (одна ошибка на
// строку) → поиск конфликтов ключей (code, qr_code, barcode) в хранилище и внутри
// файла → неупорядоченная пакетная вставка → отчёт со счётчиками и первыми
// сообщениями об ошибках.
//
// Отказ одной строки не мешает остальным: транзакции на весь пакет нет, уже
// вставленные записи при отмене не откатываются. Уникальность на этапе
// сверки носит рекомендательный характер, окончательно её обеспечивают
// уникальные индексы хранилища.
package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"envanter/internal/sheet"
	"envanter/internal/storage"
)

type TemplateProvider interface {
	GetCategory(ctx context.Context, id string) (*storage.Category, error)
	GetFieldTemplates(ctx context.Context, categoryID string) ([]storage.FieldTemplate, error)
}

type ItemStore interface {
	ExistenceChecker
	BulkWriter
}

type Metrics interface {
	ObserveLookup(key string, d time.Duration)
	ObserveImport(d time.Duration)
	AddRows(outcome string, n int)
}

// Исходы строк для метрик.
const (
	OutcomeInserted    = "inserted"
	OutcomeInvalid     = "invalid"
	OutcomeConflict    = "conflict"
	OutcomePersistFail = "persist_failed"
)

type Options struct {
	Policy     DuplicatePolicy
	ErrorLimit int
	Metrics    Metrics
	Now        func() time.Time
	NewID      func() string
}

type Service struct {
	log       *slog.Logger
	templates TemplateProvider
	items     ItemStore
	opts      Options
}

func NewService(log *slog.Logger, templates TemplateProvider, items ItemStore, opts Options) *Service {
	if opts.Policy == "" {
		opts.Policy = FirstWins
	}
	if opts.ErrorLimit <= 0 {
		opts.ErrorLimit = DefaultErrorLimit
	}
	if opts.Metrics == nil {
		opts.Metrics = nopMetrics{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}

	return &Service{
		log:       log,
		templates: templates,
		items:     items,
		opts:      opts,
	}
}

// Import прогоняет строки через конвейер. Ошибка возвращается только если
// импорт не может продолжаться: неизвестная категория, пустой шаблон,
// отказ чтения шаблона или поиска конфликтов. Построчные отказы и отказ
// пакетной вставки отражаются в Result.
func (s *Service) Import(ctx context.Context, categoryID string, rows []sheet.Row) (Result, error) {
	const op = "importer.Import"

	start := time.Now()
	runID := uuid.NewString()
	log := s.log.With(
		slog.String("op", op),
		slog.String("run_id", runID),
		slog.String("category_id", categoryID),
	)

	templates, err := s.loadTemplates(ctx, categoryID)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", op, err)
	}

	rep := newReporter(len(rows), s.opts.ErrorLimit)

	sh := &shaper{categoryID: categoryID, templates: templates, now: s.opts.Now}
	valid := make([]Candidate, 0, len(rows))
	for i, row := range rows {
		c := sh.shape(i, row)
		if msg := validate(c, templates); msg != "" {
			rep.fail(1, msg)
			continue
		}
		valid = append(valid, c)
	}
	invalid := len(rows) - len(valid)

	res := &resolver{store: s.items, policy: s.opts.Policy, metrics: s.opts.Metrics}
	final, conflictErrs, err := res.resolve(ctx, valid)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", op, err)
	}
	conflicts := len(valid) - len(final)
	rep.fail(conflicts, conflictErrs...)

	p := &persister{store: s.items, now: s.opts.Now, newID: s.opts.NewID}
	out := p.persist(ctx, final)
	rep.succeed(out.inserted)
	rep.fail(out.failed, out.errs...)

	if out.fatal != nil {
		log.Error("bulk insert failed", slog.String("error", out.fatal.Error()))
	}

	s.opts.Metrics.AddRows(OutcomeInvalid, invalid)
	s.opts.Metrics.AddRows(OutcomeConflict, conflicts)
	s.opts.Metrics.AddRows(OutcomeInserted, out.inserted)
	s.opts.Metrics.AddRows(OutcomePersistFail, out.failed)
	s.opts.Metrics.ObserveImport(time.Since(start))

	result := rep.done()
	log.Info("import finished",
		slog.Int("total", result.TotalRows),
		slog.Int("inserted", result.SuccessCount),
		slog.Int("invalid", invalid),
		slog.Int("conflicts", conflicts),
		slog.Int("persist_failed", out.failed),
		slog.Duration("took", time.Since(start)),
	)

	return result, nil
}

func (s *Service) loadTemplates(ctx context.Context, categoryID string) ([]storage.FieldTemplate, error) {
	if _, err := s.templates.GetCategory(ctx, categoryID); err != nil {
		return nil, err
	}

	templates, err := s.templates.GetFieldTemplates(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if len(templates) == 0 {
		return nil, storage.ErrTemplatesNotFound
	}

	return templates, nil
}

// IsNotFound сообщает, что категория или её шаблон отсутствуют.
func IsNotFound(err error) bool {
	return errors.Is(err, storage.ErrCategoryNotFound) || errors.Is(err, storage.ErrTemplatesNotFound)
}

type nopMetrics struct{}

func (nopMetrics) ObserveLookup(string, time.Duration) {}
func (nopMetrics) ObserveImport(time.Duration)         {}
func (nopMetrics) AddRows(string, int)                 {}
