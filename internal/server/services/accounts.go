// Package services contains the credential service's business logic.
// AccountService creates accounts, verifies passwords and mints session
// tokens for signup and login.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/campusdesk/campusdesk/internal/common"
	"github.com/campusdesk/campusdesk/internal/config"
	"github.com/campusdesk/campusdesk/internal/server/auth"
	"github.com/campusdesk/campusdesk/internal/server/models"
	"github.com/campusdesk/campusdesk/internal/server/repositories/repomanager"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// adminRoleHint is the only role hint that can grant administrator.
const adminRoleHint = "admin"

// ErrPasswordTooLong is returned for passwords bcrypt cannot hash (over 72 bytes).
var ErrPasswordTooLong = fmt.Errorf("%w: password is too long", common.ErrorValidation)

// Session is the result of a successful signup or login.
type Session struct {
	Token   string
	Account *models.Account
}

// AccountService provides credential operations:
// - CreateAccount / CreateAdministrator: persist new accounts
// - FindByEmail / VerifyPassword: look up and check credentials
// - Signup / Login: the above plus a freshly issued session token
type AccountService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	issuer        *auth.Issuer
	allowRoleHint bool
	hashCost      int
	newID         func() string

	dummyOnce sync.Once
	dummyHash []byte
}

// NewAccountService constructs an AccountService. db may be nil when m does
// not need a connection.
func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, issuer *auth.Issuer, cfg *config.Config) *AccountService {
	return &AccountService{
		db:            db,
		repomanager:   m,
		issuer:        issuer,
		allowRoleHint: cfg.AllowClientRoleHint,
		hashCost:      bcrypt.DefaultCost,
		newID:         uuid.NewString,
	}
}

// CreateAccount validates input, hashes the password and stores a new
// account. The role is standard-user unless role hints are enabled and
// roleHint is "admin".
func (s *AccountService) CreateAccount(ctx context.Context, name, email, password, roleHint string) (*models.Account, error) {
	return s.create(ctx, name, email, password, s.resolveRole(roleHint))
}

// CreateAdministrator stores a new administrator account. It is meant for
// trusted server-side tooling only.
func (s *AccountService) CreateAdministrator(ctx context.Context, name, email, password string) (*models.Account, error) {
	return s.create(ctx, name, email, password, models.RoleAdministrator)
}

// FindByEmail returns the account registered under email or
// common.ErrorNotFound.
func (s *AccountService) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	repo := s.repomanager.Accounts(s.db)
	account, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("%w: finding account: %v", common.ErrorInternal, err)
	}
	return account, nil
}

// VerifyPassword reports whether password matches the account's hash.
func (s *AccountService) VerifyPassword(account *models.Account, password string) bool {
	if account == nil || password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword(account.PasswordHash, []byte(password)) == nil
}

// Signup creates a standard account and issues a session token for it.
func (s *AccountService) Signup(ctx context.Context, name, email, password, roleHint string) (*Session, error) {
	account, err := s.CreateAccount(ctx, name, email, password, roleHint)
	if err != nil {
		return nil, err
	}
	return s.newSession(account)
}

// Login checks email and password and issues a session token. Unknown email
// and wrong password both yield common.ErrorInvalidCredentials.
func (s *AccountService) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", common.ErrorValidation)
	}

	account, err := s.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// keep the response time close to a real comparison
			_ = bcrypt.CompareHashAndPassword(s.getDummyHash(), []byte(password))
			return nil, common.ErrorInvalidCredentials
		}
		return nil, err
	}

	if !s.VerifyPassword(account, password) {
		return nil, common.ErrorInvalidCredentials
	}

	return s.newSession(account)
}

// --- helpers below ---

func (s *AccountService) create(ctx context.Context, name, email, password string, role models.Role) (*models.Account, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", common.ErrorValidation)
	}

	repo := s.repomanager.Accounts(s.db)

	if _, err := repo.GetByEmail(ctx, email); err == nil {
		return nil, common.ErrorDuplicateAccount
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("%w: checking email: %v", common.ErrorInternal, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, ErrPasswordTooLong
		}
		return nil, fmt.Errorf("%w: hashing password: %v", common.ErrorInternal, err)
	}

	account := &models.Account{
		ID:           s.newID(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}

	created, err := repo.Create(ctx, account)
	if err != nil {
		if errors.Is(err, common.ErrorDuplicateAccount) {
			return nil, common.ErrorDuplicateAccount
		}
		return nil, fmt.Errorf("%w: creating account: %v", common.ErrorInternal, err)
	}

	return created, nil
}

func (s *AccountService) resolveRole(hint string) models.Role {
	if s.allowRoleHint && hint == adminRoleHint {
		return models.RoleAdministrator
	}
	return models.RoleStandardUser
}

func (s *AccountService) newSession(account *models.Account) (*Session, error) {
	token, err := s.issuer.Issue(account)
	if err != nil {
		return nil, fmt.Errorf("%w: issuing token: %v", common.ErrorInternal, err)
	}
	return &Session{Token: token, Account: account}, nil
}

func (s *AccountService) getDummyHash() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte(uuid.NewString()), s.hashCost)
	})
	return s.dummyHash
}
