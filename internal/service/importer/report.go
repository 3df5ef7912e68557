package importer

const DefaultErrorLimit = 20

// Result — итог импорта. SuccessCount + FailureCount == TotalRows.
type Result struct {
	TotalRows    int      `json:"toplamSayisi"`
	SuccessCount int      `json:"basariliSayisi"`
	FailureCount int      `json:"hataliSayisi"`
	Errors       []string `json:"hatalar"`
}

// reporter копит счётчики и первые limit сообщений в порядке поступления.
type reporter struct {
	limit  int
	result Result
}

func newReporter(total, limit int) *reporter {
	if limit <= 0 {
		limit = DefaultErrorLimit
	}
	return &reporter{
		limit:  limit,
		result: Result{TotalRows: total, Errors: []string{}},
	}
}

func (r *reporter) succeed(n int) {
	r.result.SuccessCount += n
}

// fail учитывает n отклонённых строк и сообщения о них.
func (r *reporter) fail(n int, msgs ...string) {
	r.result.FailureCount += n
	for _, m := range msgs {
		if len(r.result.Errors) >= r.limit {
			return
		}
		r.result.Errors = append(r.result.Errors, m)
	}
}

func (r *reporter) done() Result {
	return r.result
}
