package importer

import (
	"context"
	"fmt"
	"time"

	"envanter/internal/storage"
)

// BulkWriter выполняет неупорядоченную пакетную вставку: каждая запись
// пробуется независимо. Ошибка возвращается только при отказе хранилища
// целиком; BulkResult при этом отражает то, что успело записаться.
// MySQL выполняет отдельный INSERT на запись, Mongo — один InsertMany.
type BulkWriter interface {
	InsertItems(ctx context.Context, items []storage.Item) (storage.BulkResult, error)
}

type persister struct {
	store BulkWriter
	now   func() time.Time
	newID func() string
}

type persistOutcome struct {
	inserted int
	failed   int
	errs     []string
	fatal    error
}

func (p *persister) persist(ctx context.Context, candidates []Candidate) persistOutcome {
	if len(candidates) == 0 {
		return persistOutcome{}
	}

	createdAt := p.now().UTC()
	items := make([]storage.Item, len(candidates))
	for i, c := range candidates {
		items[i] = c.Record.toItem(p.newID(), createdAt)
	}

	res, err := p.store.InsertItems(ctx, items)

	out := persistOutcome{inserted: res.Inserted}
	for _, f := range res.Failed {
		if f.Index < 0 || f.Index >= len(candidates) {
			continue
		}
		out.failed++
		row := candidates[f.Index].RowIndex
		if f.Duplicate {
			out.errs = append(out.errs, rowMessage(row, "kayıt eklenemedi, benzersiz alan çakışması"))
			continue
		}
		out.errs = append(out.errs, rowMessage(row, fmt.Sprintf("kayıt eklenemedi: %v", f.Err)))
	}

	if out.inserted > len(candidates)-out.failed {
		out.inserted = len(candidates) - out.failed
	}

	if err != nil {
		out.fatal = err
		// всё, что хранилище не подтвердило и не отклонило поштучно, — одной ошибкой
		if remaining := len(candidates) - out.inserted - out.failed; remaining > 0 {
			out.failed += remaining
			out.errs = append(out.errs, fmt.Sprintf("Toplu kayıt başarısız (%d kayıt): %v", remaining, err))
		}
	}

	return out
}
