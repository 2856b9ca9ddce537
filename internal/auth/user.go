package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/noteful/noteful/internal/db"
	"github.com/noteful/noteful/internal/errs"
)

// bcryptCost matches the digest cost of the system this replaces, so any
// migrated credential digests keep verifying.
const bcryptCost = 10

// Username and password size restrictions, enforced at signup.
const (
	MinUsernameLen = 2
	MinPasswordLen = 8
	MaxPasswordLen = 72 // bcrypt input ceiling
)

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

// realClock implements Clock using the real system time.
type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// User represents a user account. The credential digest never leaves this
// package.
type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Fullname  string `json:"fullname"`
	CreatedAt int64  `json:"-"`
}

// RegisterParams carries signup input.
type RegisterParams struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Fullname string `json:"fullname"`
}

// UserService handles account creation and credential verification against
// the shared store.
type UserService struct {
	store *db.Store
	clock Clock
}

// NewUserService creates a new user service.
func NewUserService(store *db.Store) *UserService {
	return &UserService{store: store, clock: realClock{}}
}

// SetClock replaces the clock used by the service. Intended for testing.
func (s *UserService) SetClock(c Clock) {
	s.clock = c
}

// Register validates signup input, digests the password, and creates the
// account. A taken username surfaces as a typed duplicate-user error.
func (s *UserService) Register(ctx context.Context, params RegisterParams) (*User, error) {
	if err := validateRegisterParams(params); err != nil {
		return nil, err
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		ID:        uuid.New().String(),
		Username:  params.Username,
		Fullname:  params.Fullname,
		CreatedAt: s.clock.Now().UTC().Unix(),
	}

	_, err = s.store.DB().ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, fullname, created_at) VALUES (?, ?, ?, ?, ?)`,
		user.ID, user.Username, string(digest), user.Fullname, user.CreatedAt,
	)
	if err != nil {
		if db.IsDuplicateKey(err) {
			return nil, errs.Wrap(errs.DuplicateUser, "The username has already exist", err)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// VerifyLogin checks username/password credentials. An unknown username and a
// wrong password both answer the same unauthorized error.
func (s *UserService) VerifyLogin(ctx context.Context, username, password string) (*User, error) {
	var (
		user   User
		digest string
	)
	err := s.store.DB().QueryRowContext(ctx,
		`SELECT id, username, fullname, password_hash, created_at FROM users WHERE username = ?`,
		username,
	).Scan(&user.ID, &user.Username, &user.Fullname, &digest, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.New(errs.Unauthorized, "Incorrect username or password")
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) != nil {
		return nil, errs.New(errs.Unauthorized, "Incorrect username or password")
	}

	return &user, nil
}

func validateRegisterParams(params RegisterParams) error {
	if params.Username == "" || params.Password == "" {
		return errs.New(errs.InvalidArgument, "missing username or password")
	}
	if params.Username != strings.TrimSpace(params.Username) {
		return errs.New(errs.InvalidArgument, "username can not start or end with whitespace")
	}
	if params.Password != strings.TrimSpace(params.Password) {
		return errs.New(errs.InvalidArgument, "password can not start or end with whitespace")
	}
	if len(params.Username) < MinUsernameLen {
		return errs.New(errs.InvalidArgument,
			fmt.Sprintf("username must be at least %d characters long", MinUsernameLen))
	}
	if len(params.Password) < MinPasswordLen {
		return errs.New(errs.InvalidArgument,
			fmt.Sprintf("password must be at least %d characters long", MinPasswordLen))
	}
	if len(params.Password) > MaxPasswordLen {
		return errs.New(errs.InvalidArgument,
			fmt.Sprintf("password must be at most %d characters long", MaxPasswordLen))
	}
	return nil
}
