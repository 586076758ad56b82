package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"busline/internal/domain"
	"busline/internal/domain/models"
	"busline/internal/repositories"
	"busline/internal/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Claims is the JWT payload. RegisteredClaims.ID carries the session ID.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Session is what a successful login or session lookup returns.
type Session struct {
	Token     string         `json:"token,omitempty"`
	ExpiresAt time.Time      `json:"expires_at"`
	Profile   models.Profile `json:"profile"`
	Dashboard string         `json:"dashboard"`
}

type RegisterInput struct {
	Email       string `json:"email" validate:"required,email,max=255"`
	Password    string `json:"password" validate:"required,min=6,max=72"`
	FullName    string `json:"full_name" validate:"required,max=255"`
	Phone       string `json:"phone" validate:"omitempty,max=32"`
	Gender      string `json:"gender" validate:"omitempty,oneof=male female other"`
	DateOfBirth string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
}

// StaffInput is what an admin submits to open an admin, operator or support account.
type StaffInput struct {
	RegisterInput
	Role string `json:"role"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RevocationList remembers signed-out session IDs until their token expires.
type RevocationList struct {
	mu  sync.Mutex
	ids map[string]time.Time
}

func NewRevocationList() *RevocationList {
	return &RevocationList{ids: map[string]time.Time{}}
}

func (l *RevocationList) Revoke(sid string, until time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ids[sid] = until
}

func (l *RevocationList) Revoked(sid string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for id, until := range l.ids {
		if now.After(until) {
			delete(l.ids, id)
		}
	}
	_, ok := l.ids[sid]
	return ok
}

// AuthService covers register, login, session lookup, sign-out and profile edits.
type AuthService struct {
	Users     repositories.UserRepository
	Secret    []byte
	TTL       time.Duration
	Revoked   *RevocationList
	Drafts    *DraftRegistry
	Now       func() time.Time
	RequestID string
}

func (s AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s AuthService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return 24 * time.Hour
}

// Register creates a passenger with a bcrypt password hash. Staff roles are
// never granted through self sign-up.
func (s AuthService) Register(ctx context.Context, in RegisterInput) (models.Profile, error) {
	return s.createUser(ctx, in, domain.RolePassenger, "register")
}

// CreateStaff opens a staff account. Only admins reach it over HTTP; main
// also uses it to seed the first admin.
func (s AuthService) CreateStaff(ctx context.Context, in StaffInput) (models.Profile, error) {
	role, err := domain.ParseRole(in.Role)
	if err != nil {
		return models.Profile{}, err
	}
	if role == domain.RolePassenger {
		return models.Profile{}, domain.ValidationError{Field: "role", Msg: "pakai registrasi biasa untuk passenger"}
	}
	return s.createUser(ctx, in.RegisterInput, role, "create_staff")
}

// EnsureAdmin seeds an admin account unless the email is already taken.
func (s AuthService) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	in := StaffInput{
		RegisterInput: RegisterInput{Email: email, Password: password, FullName: "Administrator"},
		Role:          string(domain.RoleAdmin),
	}
	if _, err := s.CreateStaff(ctx, in); err != nil {
		if domain.IsConflict(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s AuthService) createUser(ctx context.Context, in RegisterInput, role domain.Role, action string) (models.Profile, error) {
	in.Email = utils.NormalizeEmail(in.Email)
	in.FullName = utils.NormalizeSpace(in.FullName)
	if err := validateInput(in); err != nil {
		return models.Profile{}, err
	}
	exists, err := s.Users.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return models.Profile{}, domain.InternalError{Msg: "gagal cek email", Err: err}
	}
	if exists {
		return models.Profile{}, domain.ConflictError{Resource: "user", Msg: "email sudah terdaftar"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.Profile{}, domain.InternalError{Msg: "gagal hash password", Err: err}
	}

	now := s.now()
	p := models.Profile{
		ID:          uuid.NewString(),
		Email:       in.Email,
		FullName:    in.FullName,
		Phone:       strings.TrimSpace(in.Phone),
		Gender:      in.Gender,
		DateOfBirth: in.DateOfBirth,
		Role:        role,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Users.Insert(ctx, p, string(hash)); err != nil {
		return models.Profile{}, domain.InternalError{Msg: "gagal menyimpan user", Err: err}
	}
	utils.LogEvent(s.RequestID, "auth", action, "user_id="+p.ID+" role="+string(p.Role))
	return p, nil
}

// Login checks the password and issues a signed session token.
func (s AuthService) Login(ctx context.Context, in LoginInput) (Session, error) {
	in.Email = utils.NormalizeEmail(in.Email)
	if err := validateInput(in); err != nil {
		return Session{}, err
	}
	p, hash, err := s.Users.GetCredentials(ctx, in.Email)
	if err != nil {
		if domain.IsNotFound(err) {
			return Session{}, domain.UnauthorizedError{Msg: "email atau password salah"}
		}
		return Session{}, domain.InternalError{Msg: "gagal memuat user", Err: err}
	}
	if hash == "" || bcrypt.CompareHashAndPassword([]byte(hash), []byte(in.Password)) != nil {
		return Session{}, domain.UnauthorizedError{Msg: "email atau password salah"}
	}
	if !p.Role.Valid() {
		p.Role = domain.RolePassenger
	}

	token, exp, err := s.issueToken(p)
	if err != nil {
		return Session{}, domain.InternalError{Msg: "gagal membuat token", Err: err}
	}
	utils.LogEvent(s.RequestID, "auth", "login", "user_id="+p.ID)
	return Session{Token: token, ExpiresAt: exp, Profile: p, Dashboard: domain.DashboardRoute(p.Role)}, nil
}

func (s AuthService) issueToken(p models.Profile) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.ttl())
	claims := Claims{
		UserID: p.ID,
		Email:  p.Email,
		Role:   string(p.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   p.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	return signed, exp, err
}

// ParseToken verifies signature, expiry and revocation.
func (s AuthService) ParseToken(raw string) (*Claims, error) {
	raw = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "Bearer "))
	if raw == "" {
		return nil, domain.UnauthorizedError{Msg: "token tidak ada"}
	}
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.Secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !tok.Valid {
		msg := "token tidak valid"
		if errors.Is(err, jwt.ErrTokenExpired) {
			msg = "token kedaluwarsa"
		}
		return nil, domain.UnauthorizedError{Msg: msg, Err: err}
	}
	if claims.UserID == "" || claims.ID == "" {
		return nil, domain.UnauthorizedError{Msg: "token tidak valid"}
	}
	if s.Revoked != nil && s.Revoked.Revoked(claims.ID, s.now()) {
		return nil, domain.UnauthorizedError{Msg: "sesi sudah berakhir"}
	}
	return claims, nil
}

// Session returns the profile behind claims, creating a default profile row
// when the identity has none yet.
func (s AuthService) Session(ctx context.Context, claims *Claims) (Session, error) {
	p, err := s.EnsureProfile(ctx, claims)
	if err != nil {
		return Session{}, err
	}
	var exp time.Time
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}
	return Session{ExpiresAt: exp, Profile: p, Dashboard: domain.DashboardRoute(p.Role)}, nil
}

func (s AuthService) EnsureProfile(ctx context.Context, claims *Claims) (models.Profile, error) {
	p, err := s.Users.GetByID(ctx, claims.UserID)
	if err == nil {
		if !p.Role.Valid() {
			p.Role = domain.RolePassenger
		}
		return p, nil
	}
	if !domain.IsNotFound(err) {
		return models.Profile{}, domain.InternalError{Msg: "gagal memuat profil", Err: err}
	}

	role, rerr := domain.ParseRole(claims.Role)
	if rerr != nil {
		role = domain.RolePassenger
	}
	now := s.now()
	p = models.Profile{
		ID:        claims.UserID,
		Email:     claims.Email,
		FullName:  defaultName(claims.Email),
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Users.Insert(ctx, p, ""); err != nil {
		return models.Profile{}, domain.InternalError{Msg: "gagal membuat profil", Err: err}
	}
	utils.LogEvent(s.RequestID, "auth", "ensure_profile", "created user_id="+p.ID)
	return p, nil
}

func defaultName(email string) string {
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return "User"
}

// Logout revokes the session and drops every draft the user still had open.
func (s AuthService) Logout(claims *Claims) {
	if s.Revoked != nil {
		until := s.now().Add(s.ttl())
		if claims.ExpiresAt != nil {
			until = claims.ExpiresAt.Time
		}
		s.Revoked.Revoke(claims.ID, until)
	}
	if s.Drafts != nil {
		DraftService{Registry: s.Drafts, RequestID: s.RequestID}.ResetForUser(claims.UserID)
	}
	utils.LogEvent(s.RequestID, "auth", "logout", "user_id="+claims.UserID)
}

// UpdateProfile applies a partial update and returns the fresh profile.
func (s AuthService) UpdateProfile(ctx context.Context, userID string, upd models.ProfileUpdate) (models.Profile, error) {
	if upd.Empty() {
		return models.Profile{}, domain.ValidationError{Msg: "tidak ada field yang diubah"}
	}
	if err := validateInput(upd); err != nil {
		return models.Profile{}, err
	}
	if err := s.Users.Update(ctx, userID, upd, s.now()); err != nil {
		if domain.IsNotFound(err) {
			return models.Profile{}, err
		}
		return models.Profile{}, domain.InternalError{Msg: "gagal update profil", Err: err}
	}
	p, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return models.Profile{}, domain.InternalError{Msg: "gagal memuat profil", Err: err}
	}
	utils.LogEvent(s.RequestID, "auth", "update_profile", "user_id="+userID)
	return p, nil
}
