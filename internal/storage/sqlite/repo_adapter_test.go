package sqlite

import (
	"context"
	"strings"
	"testing"

	"disasteretl/internal/ddl"
	"disasteretl/internal/storage"
)

// TestSQLiteStorageRegistrationUsesNewRepositoryHook verifies that the
// "sqlite" backend registered in init() uses the newRepository hook and that
// wrappedRepo delegates Close.
func TestSQLiteStorageRegistrationUsesNewRepositoryHook(t *testing.T) {
	origNewRepository := newRepository
	defer func() { newRepository = origNewRepository }()

	var (
		called   bool
		gotCfg   Config
		closed   bool
		fakeRepo = &Repository{}
	)
	newRepository = func(ctx context.Context, cfg Config) (*Repository, func(), error) {
		called = true
		gotCfg = cfg
		return fakeRepo, func() { closed = true }, nil
	}

	repo, err := storage.New(context.Background(), storage.Config{Kind: "sqlite", DSN: "DisasterResponse.db"})
	if err != nil {
		t.Fatalf("storage.New() error = %v", err)
	}
	if !called {
		t.Fatalf("newRepository hook was not called")
	}
	if gotCfg.DSN != "DisasterResponse.db" {
		t.Errorf("hook cfg.DSN = %q, want DisasterResponse.db", gotCfg.DSN)
	}

	w, ok := repo.(*wrappedRepo)
	if !ok {
		t.Fatalf("storage.New() type = %T, want *wrappedRepo", repo)
	}
	if w.Repository != fakeRepo {
		t.Fatalf("wrappedRepo.Repository = %p, want %p", w.Repository, fakeRepo)
	}

	repo.Close()
	if !closed {
		t.Fatalf("wrappedRepo.Close() did not invoke closeFn")
	}
}

func TestSQLiteDDLRegistration(t *testing.T) {
	t.Parallel()

	sql, err := storage.BuildCreateSQL("sqlite", ddl.TableDef{
		FQN:     "Project2",
		Columns: []ddl.ColumnDef{{Name: "id", Type: ddl.TypeInt, Nullable: true}},
	})
	if err != nil {
		t.Fatalf("BuildCreateSQL() error = %v", err)
	}
	if !strings.HasPrefix(sql, `CREATE TABLE "Project2"`) || !strings.Contains(sql, `"id" INTEGER`) {
		t.Fatalf("BuildCreateSQL() = %q", sql)
	}
}
