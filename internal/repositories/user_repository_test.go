package repositories

import (
	"context"
	"testing"
	"time"

	"busline/internal/domain"
	"busline/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
)

var profileCols = []string{"id", "email", "full_name", "phone", "gender", "date_of_birth", "role", "created_at", "updated_at"}

func TestUserRepositoryGetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	mock.ExpectQuery("FROM users WHERE id = \\?").WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows(profileCols).
			AddRow("u-1", "john@example.com", "John Doe", "555-0100", "male", "1990-06-15", "admin", now, now))

	repo := UserRepository{DB: db}
	p, err := repo.GetByID(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if p.FullName != "John Doe" || p.Role != domain.RoleAdmin || p.DateOfBirth != "1990-06-15" {
		t.Fatalf("profile = %+v", p)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepositoryGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM users WHERE id = \\?").WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(profileCols))

	_, err = UserRepository{DB: db}.GetByID(context.Background(), "missing")
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUserRepositoryGetCredentials(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("password_hash FROM users WHERE email = \\?").WithArgs("john@example.com").
		WillReturnRows(sqlmock.NewRows(append(append([]string{}, profileCols...), "password_hash")).
			AddRow("u-1", "john@example.com", "John Doe", "", "male", "", "passenger", now, now, "$2a$hash"))

	p, hash, err := UserRepository{DB: db}.GetCredentials(context.Background(), "  John@Example.com ")
	if err != nil {
		t.Fatalf("GetCredentials error: %v", err)
	}
	if hash != "$2a$hash" || p.ID != "u-1" {
		t.Fatalf("got %+v %q", p, hash)
	}
}

func TestUserRepositoryInsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectExec("INSERT INTO users").
		WithArgs("u-1", "ann@example.com", "hash", "Ann", nil, "female", "1992-01-01", "passenger", now, now).
		WillReturnResult(sqlmock.NewResult(1, 1))

	p := models.Profile{ID: "u-1", Email: "Ann@Example.com", FullName: "Ann", Gender: "female", DateOfBirth: "1992-01-01", Role: domain.RolePassenger, CreatedAt: now, UpdatedAt: now}
	if err := (UserRepository{DB: db}).Insert(context.Background(), p, "hash"); err != nil {
		t.Fatalf("Insert error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepositoryUpdateOnlyPresentKeys(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	now := time.Now()
	name := "  Jane  "
	mock.ExpectExec("UPDATE users SET full_name=\\?,updated_at=\\? WHERE id=\\?").
		WithArgs("Jane", now, "u-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := UserRepository{DB: db}
	if err := repo.Update(context.Background(), "u-1", models.ProfileUpdate{FullName: &name}, now); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if err := repo.Update(context.Background(), "u-1", models.ProfileUpdate{}, now); err != nil {
		t.Fatalf("empty update should be a no-op, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepositoryUpdateMissingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	g := "other"
	mock.ExpectExec("UPDATE users SET gender").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT 1 FROM users WHERE id = \\?").WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))
	err = UserRepository{DB: db}.Update(context.Background(), "nope", models.ProfileUpdate{Gender: &g}, time.Now())
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUserRepositoryUpdateUnchangedRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	g := "female"
	mock.ExpectExec("UPDATE users SET gender").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT 1 FROM users WHERE id = \\?").WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	if err := (UserRepository{DB: db}).Update(context.Background(), "u-1", models.ProfileUpdate{Gender: &g}, time.Now()); err != nil {
		t.Fatalf("unchanged row should not be reported missing, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserRepositoryEnsureSchemaSkipsExistingTable(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("information_schema\\.tables").WithArgs("users").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("users"))

	if err := (UserRepository{DB: db}).EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
