package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	intconfig "busline/internal/config"
	intdb "busline/internal/db"
	"busline/internal/domain"
	"busline/internal/domain/models"
	"busline/internal/utils"
)

const usersDDL = `
CREATE TABLE IF NOT EXISTS users (
	id CHAR(36) NOT NULL PRIMARY KEY,
	email VARCHAR(255) NOT NULL,
	password_hash VARCHAR(255) NOT NULL DEFAULT '',
	full_name VARCHAR(255) NOT NULL DEFAULT '',
	phone VARCHAR(32) NULL,
	gender VARCHAR(16) NOT NULL DEFAULT '',
	date_of_birth DATE NULL,
	role VARCHAR(16) NOT NULL DEFAULT 'passenger',
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_email (email)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
`

const profileColumns = `id, email, full_name, COALESCE(phone, ''), gender, COALESCE(DATE_FORMAT(date_of_birth, '%Y-%m-%d'), ''), role, created_at, updated_at`

type UserRepository struct {
	DB *sql.DB
}

func (r UserRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// EnsureSchema creates the users table when it is missing.
func (r UserRepository) EnsureSchema(ctx context.Context) error {
	return intdb.EnsureTable(ctx, r.db(), "users", usersDDL)
}

func (r UserRepository) GetByID(ctx context.Context, id string) (models.Profile, error) {
	row := r.db().QueryRowContext(ctx, `SELECT `+profileColumns+` FROM users WHERE id = ? LIMIT 1`, id)
	p, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Profile{}, domain.NotFoundError{Resource: "profile", Err: err}
	}
	return p, err
}

// GetCredentials returns the profile and bcrypt hash for a login email.
func (r UserRepository) GetCredentials(ctx context.Context, email string) (models.Profile, string, error) {
	var hash string
	row := r.db().QueryRowContext(ctx, `SELECT `+profileColumns+`, password_hash FROM users WHERE email = ? LIMIT 1`,
		utils.NormalizeEmail(email))
	p, err := scanProfile(row, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Profile{}, "", domain.NotFoundError{Resource: "user", Err: err}
	}
	return p, hash, err
}

func (r UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var n int
	err := r.db().QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE email = ?`,
		utils.NormalizeEmail(email)).Scan(&n)
	return n > 0, err
}

// Insert stores a new profile row. passwordHash may be empty for profiles
// created from an existing session.
func (r UserRepository) Insert(ctx context.Context, p models.Profile, passwordHash string) error {
	_, err := r.db().ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, full_name, phone, gender, date_of_birth, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID,
		utils.NormalizeEmail(p.Email),
		passwordHash,
		p.FullName,
		intdb.NullIfEmpty(p.Phone),
		p.Gender,
		intdb.NullIfEmpty(p.DateOfBirth),
		string(p.Role),
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

// Update performs PATCH-style updates based on key presence.
func (r UserRepository) Update(ctx context.Context, id string, upd models.ProfileUpdate, now time.Time) error {
	sets := []string{}
	args := []any{}

	if upd.FullName != nil {
		sets = append(sets, "full_name=?")
		args = append(args, strings.TrimSpace(*upd.FullName))
	}
	if upd.Phone != nil {
		sets = append(sets, "phone=?")
		args = append(args, intdb.NullIfEmpty(strings.TrimSpace(*upd.Phone)))
	}
	if upd.Gender != nil {
		sets = append(sets, "gender=?")
		args = append(args, strings.TrimSpace(*upd.Gender))
	}
	if upd.DateOfBirth != nil {
		sets = append(sets, "date_of_birth=?")
		args = append(args, intdb.NullIfEmpty(strings.TrimSpace(*upd.DateOfBirth)))
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at=?")
	args = append(args, now, id)

	res, err := r.db().ExecContext(ctx, `UPDATE users SET `+strings.Join(sets, ",")+` WHERE id=?`, args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// Without clientFoundRows an unchanged row also reports 0.
		ok, err := r.exists(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return domain.NotFoundError{Resource: "profile"}
		}
	}
	return nil
}

func (r UserRepository) exists(ctx context.Context, id string) (bool, error) {
	var one int
	err := r.db().QueryRowContext(ctx, `SELECT 1 FROM users WHERE id = ? LIMIT 1`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

func scanProfile(row *sql.Row, extra ...any) (models.Profile, error) {
	var (
		p    models.Profile
		role string
	)
	dest := []any{&p.ID, &p.Email, &p.FullName, &p.Phone, &p.Gender, &p.DateOfBirth, &role, &p.CreatedAt, &p.UpdatedAt}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return models.Profile{}, err
	}
	p.Role = domain.Role(role)
	return p, nil
}
