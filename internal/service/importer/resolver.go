package importer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"envanter/internal/storage"
)

// DuplicatePolicy определяет судьбу строк одного файла, претендующих на один ключ.
type DuplicatePolicy string

const (
	// FirstWins оставляет первую строку, последующие отклоняются.
	FirstWins DuplicatePolicy = "first_wins"
	// RejectAll отклоняет все строки с повторяющимся ключом.
	RejectAll DuplicatePolicy = "reject_all"
)

type ExistenceChecker interface {
	ExistingValues(ctx context.Context, key storage.UniqueKey, values []string) ([]string, error)
}

var keyLabels = map[storage.UniqueKey]string{
	storage.KeyCode:    "Kod",
	storage.KeyQRCode:  "QR kod",
	storage.KeyBarcode: "Barkod",
}

type resolver struct {
	store   ExistenceChecker
	policy  DuplicatePolicy
	metrics Metrics
}

// resolve отбрасывает записи, чьи ключи уже есть в хранилище или повторяются
// внутри файла. На каждый вид ключа — не больше одного запроса, все запросы
// выполняются параллельно.
func (r *resolver) resolve(ctx context.Context, candidates []Candidate) ([]Candidate, []string, error) {
	const op = "importer.resolve"

	values := make(map[storage.UniqueKey]map[string]bool, len(storage.UniqueKeys))
	for _, k := range storage.UniqueKeys {
		values[k] = make(map[string]bool)
	}
	for _, c := range candidates {
		for _, k := range storage.UniqueKeys {
			if v := c.Record.key(k); v != "" {
				values[k][v] = true
			}
		}
	}

	existing := make(map[storage.UniqueKey]map[string]bool, len(storage.UniqueKeys))
	found := make([][]string, len(storage.UniqueKeys))

	g, gCtx := errgroup.WithContext(ctx)
	for i, k := range storage.UniqueKeys {
		if len(values[k]) == 0 {
			continue
		}
		batch := make([]string, 0, len(values[k]))
		for v := range values[k] {
			batch = append(batch, v)
		}

		g.Go(func() error {
			start := time.Now()
			res, err := r.store.ExistingValues(gCtx, k, batch)
			r.metrics.ObserveLookup(string(k), time.Since(start))
			if err != nil {
				return fmt.Errorf("%s: %s lookup: %w", op, k, err)
			}
			found[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	for i, k := range storage.UniqueKeys {
		existing[k] = make(map[string]bool, len(found[i]))
		for _, v := range found[i] {
			existing[k][v] = true
		}
	}

	storeReasons := make([][]string, len(candidates))
	// claims[key][value] — индексы кандидатов без коллизий с хранилищем, в порядке строк
	claims := make(map[storage.UniqueKey]map[string][]int, len(storage.UniqueKeys))
	for _, k := range storage.UniqueKeys {
		claims[k] = make(map[string][]int)
	}
	for i, c := range candidates {
		for _, k := range storage.UniqueKeys {
			if v := c.Record.key(k); v != "" && existing[k][v] {
				storeReasons[i] = append(storeReasons[i], fmt.Sprintf("%s %s zaten kayıtlı", keyLabels[k], v))
			}
		}
		if len(storeReasons[i]) > 0 {
			continue
		}
		for _, k := range storage.UniqueKeys {
			if v := c.Record.key(k); v != "" {
				claims[k][v] = append(claims[k][v], i)
			}
		}
	}

	// owner[key][value] — строка, за которой закреплён ключ
	owner := make(map[storage.UniqueKey]map[string]int, len(storage.UniqueKeys))
	for _, k := range storage.UniqueKeys {
		owner[k] = make(map[string]int)
	}

	kept := make([]Candidate, 0, len(candidates))
	var errs []string
	for i, c := range candidates {
		reasons := storeReasons[i]
		if len(reasons) == 0 {
			for _, k := range storage.UniqueKeys {
				v := c.Record.key(k)
				if v == "" {
					continue
				}
				if other, dup := r.duplicateOf(claims[k][v], owner[k], v, i); dup {
					reasons = append(reasons, fmt.Sprintf("%s %s dosyada tekrar ediyor (satır %d)",
						keyLabels[k], v, candidates[other].RowIndex+1))
				}
			}
		}

		if len(reasons) > 0 {
			errs = append(errs, rowMessage(c.RowIndex, strings.Join(reasons, "; ")))
			continue
		}

		for _, k := range storage.UniqueKeys {
			if v := c.Record.key(k); v != "" {
				owner[k][v] = i
			}
		}
		kept = append(kept, c)
	}

	return kept, errs, nil
}

// duplicateOf сообщает, должен ли кандидат i уступить ключ v, и возвращает
// индекс строки, с которой он конфликтует. claimants — строки без коллизий с
// хранилищем, owners — ключи уже принятых строк.
func (r *resolver) duplicateOf(claimants []int, owners map[string]int, v string, i int) (int, bool) {
	switch r.policy {
	case RejectAll:
		if len(claimants) < 2 {
			return 0, false
		}
		for _, other := range claimants {
			if other != i {
				return other, true
			}
		}
	default:
		// побеждает первая принятая строка, а не первая встреченная
		if other, taken := owners[v]; taken {
			return other, true
		}
	}

	return 0, false
}
