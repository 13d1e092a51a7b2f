package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func setupItemMock(t *testing.T) (*ItemRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewItemRepo(db), mock
}

func itemRows(t *testing.T) *sqlmock.Rows {
	t.Helper()
	return sqlmock.NewRows([]string{"id", "text", "done", "user_id", "created_at", "updated_at"})
}

func TestItemCreate(t *testing.T) {
	repo, mock := setupItemMock(t)
	now := time.Now().UTC()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO items (text, user_id) VALUES (?,?)")).
		WithArgs("buy milk", uint64(7)).
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT text,done,user_id,created_at,updated_at FROM items WHERE id=?")).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"text", "done", "user_id", "created_at", "updated_at"}).
			AddRow("buy milk", false, 7, now, now))

	it := &Item{UserID: 7, Text: "buy milk"}
	if err := repo.Create(context.Background(), it); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if it.ID != 3 || it.Done || it.UserID != 7 {
		t.Errorf("unexpected item: %+v", it)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestItemListByOwner(t *testing.T) {
	repo, mock := setupItemMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT id,text,done,user_id,created_at,updated_at").
		WithArgs(uint64(7)).
		WillReturnRows(itemRows(t).
			AddRow(1, "buy milk", false, 7, now, now).
			AddRow(2, "walk dog", true, 7, now, now))

	items, err := repo.ListByOwner(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 || items[0].Text != "buy milk" || !items[1].Done {
		t.Errorf("unexpected items: %+v", items)
	}
}

func TestItemListByOwnerEmpty(t *testing.T) {
	repo, mock := setupItemMock(t)

	mock.ExpectQuery("SELECT id,text,done,user_id,created_at,updated_at").
		WithArgs(uint64(7)).
		WillReturnRows(itemRows(t))

	items, err := repo.ListByOwner(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", items)
	}
}

func TestItemGetByIDAndOwnerForeign(t *testing.T) {
	repo, mock := setupItemMock(t)

	// The row exists but belongs to someone else; the ownership-scoped
	// query matches nothing and the caller sees not-found.
	mock.ExpectQuery("SELECT id,text,done,user_id,created_at,updated_at").
		WithArgs(uint64(3), uint64(99)).
		WillReturnRows(itemRows(t))

	_, err := repo.GetByIDAndOwner(context.Background(), 3, 99)
	var se *StoreError
	if !errors.As(err, &se) || se.Kind != KindNotFound {
		t.Fatalf("expected KindNotFound, got %v", err)
	}
}

func TestItemUpdate(t *testing.T) {
	repo, mock := setupItemMock(t)
	now := time.Now().UTC()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE items")).
		WithArgs("buy oat milk", true, uint64(3), uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT id,text,done,user_id,created_at,updated_at").
		WithArgs(uint64(3), uint64(7)).
		WillReturnRows(itemRows(t).AddRow(3, "buy oat milk", true, 7, now, now))

	it, err := repo.Update(context.Background(), 3, 7, "buy oat milk", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if it.Text != "buy oat milk" || !it.Done {
		t.Errorf("unexpected item: %+v", it)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestItemDelete(t *testing.T) {
	repo, mock := setupItemMock(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM items WHERE id=? AND user_id=?")).
		WithArgs(uint64(3), uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.DeleteByIDAndOwner(context.Background(), 3, 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestItemDeleteMissing(t *testing.T) {
	repo, mock := setupItemMock(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM items WHERE id=? AND user_id=?")).
		WithArgs(uint64(3), uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteByIDAndOwner(context.Background(), 3, 7)
	var se *StoreError
	if !errors.As(err, &se) || se.Kind != KindNotFound {
		t.Fatalf("expected KindNotFound, got %v", err)
	}
}
