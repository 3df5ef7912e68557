package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
)

var testStorage *Storage

// Интеграционные тесты запускаются, только если задан MYSQL_TEST_DSN,
// например root:@tcp(localhost:3306)/envanter_test?parseTime=true
func TestMain(m *testing.M) {
	dsn := os.Getenv("MYSQL_TEST_DSN")
	if dsn == "" {
		os.Exit(m.Run())
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		panic(fmt.Errorf("не удалось подключиться к тестовой БД: %w", err))
	}

	if err := db.Ping(); err != nil {
		panic(fmt.Errorf("ping failed: %w", err))
	}

	testStorage = NewWithDB(db)
	if err := testStorage.EnsureSchema(context.Background()); err != nil {
		panic(err)
	}

	code := m.Run()

	db.Close()
	os.Exit(code)
}

func requireDB(t *testing.T) *Storage {
	t.Helper()
	if testStorage == nil {
		t.Skip("MYSQL_TEST_DSN is not set")
	}
	return testStorage
}
