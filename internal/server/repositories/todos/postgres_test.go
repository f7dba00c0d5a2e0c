package todos

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"todoapp/internal/common"
	"todoapp/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

const selectByOwnerQuery = `(?s)^SELECT\s+id,\s*owner_id,\s*title,\s*description,\s*due_date,\s*completed\s+FROM\s+todos\s+WHERE\s+owner_id\s*=\s*\$1\s+ORDER\s+BY\s+id\s*$`
const getByIDQuery = `(?s)^SELECT\s+id,\s*owner_id,\s*title,\s*description,\s*due_date,\s*completed\s+FROM\s+todos\s+WHERE\s+id\s*=\s*\$1\s+AND\s+owner_id\s*=\s*\$2\s*$`

func TestCreate_ReturnsAssignedID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	due := time.Now().Add(24 * time.Hour)
	q := `(?s)^INSERT\s+INTO\s+todos\s*\(owner_id,\s*title,\s*description,\s*due_date,\s*completed\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5\)\s*RETURNING\s+id\s*$`

	rows := sqlmock.NewRows([]string{"id"}).AddRow(int64(7))
	mock.ExpectQuery(q).
		WithArgs(int64(1), "buy milk", "", due, false).
		WillReturnRows(rows)

	todo := &models.Todo{OwnerID: 1, Title: "buy milk", DueDate: due}
	got, err := repo.Create(context.Background(), todo)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != 7 {
		t.Fatalf("unexpected id: %d", got.ID)
	}
}

func TestGetByID_FiltersByOwner(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(getByIDQuery).
		WithArgs(int64(7), int64(2)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 2, 7)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("todo of another owner must be not found, got %v", err)
	}
}

func TestSelectByOwner_ReturnsRows(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	due := time.Now()
	rows := sqlmock.NewRows([]string{"id", "owner_id", "title", "description", "due_date", "completed"}).
		AddRow(int64(1), int64(1), "a", "", due, false).
		AddRow(int64(2), int64(1), "b", "desc", due, true)
	mock.ExpectQuery(selectByOwnerQuery).
		WithArgs(int64(1)).
		WillReturnRows(rows)

	got, err := repo.SelectByOwner(context.Background(), 1)
	if err != nil {
		t.Fatalf("SelectByOwner error: %v", err)
	}
	if len(got) != 2 || got[0].Title != "a" || got[1].Completed != true {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestSelectByOwner_Empty(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectByOwnerQuery).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "title", "description", "due_date", "completed"}))

	got, err := repo.SelectByOwner(context.Background(), 9)
	if err != nil {
		t.Fatalf("SelectByOwner error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no rows, got %d", len(got))
	}
}

func TestUpdate_NotFoundWhenNoRows(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+todos\s+SET\s+title\s*=\s*\$1,\s*description\s*=\s*\$2,\s*due_date\s*=\s*\$3,\s*completed\s*=\s*\$4\s+WHERE\s+id\s*=\s*\$5\s+AND\s+owner_id\s*=\s*\$6\s*$`

	due := time.Now()
	mock.ExpectExec(q).
		WithArgs("t", "d", due, true, int64(7), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	todo := &models.Todo{ID: 7, OwnerID: 2, Title: "t", Description: "d", DueDate: due, Completed: true}
	err := repo.Update(context.Background(), todo)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestDelete_SuccessAndNotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^DELETE\s+FROM\s+todos\s+WHERE\s+id\s*=\s*\$1\s+AND\s+owner_id\s*=\s*\$2\s*$`

	mock.ExpectExec(q).
		WithArgs(int64(7), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	if err := repo.Delete(context.Background(), 1, 7); err != nil {
		t.Fatalf("Delete error: %v", err)
	}

	mock.ExpectExec(q).
		WithArgs(int64(7), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	if err := repo.Delete(context.Background(), 2, 7); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("foreign todo must be not found, got %v", err)
	}
}

func TestSelectByOwner_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectByOwnerQuery).
		WithArgs(int64(1)).
		WillReturnError(errors.New("db down"))

	_, err := repo.SelectByOwner(context.Background(), 1)
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}
