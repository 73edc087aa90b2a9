package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/example/bitebuddy/pkg/credential"
	"github.com/example/bitebuddy/pkg/models"
	"github.com/example/bitebuddy/pkg/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	Name            string
	Mobile          string
	Password        string
	ConfirmPassword string
	Email           string
	Location        string
	ProfilePic      string
}

func (r *RegisterRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Mobile = strings.TrimSpace(r.Mobile)
	r.Email = strings.TrimSpace(r.Email)
	r.Location = strings.TrimSpace(r.Location)
}

func (r *RegisterRequest) validate() error {
	required := []struct{ label, value string }{
		{"Name", r.Name},
		{"Mobile", r.Mobile},
		{"Password", r.Password},
		{"Confirm Password", r.ConfirmPassword},
	}
	for _, f := range required {
		if f.value == "" {
			return fail(ErrValidation, f.label+" required")
		}
	}
	if r.Password != r.ConfirmPassword {
		return fail(ErrValidation, "Passwords do not match")
	}
	if len(r.Password) > credential.MaxPasswordBytes {
		return fail(ErrValidation, "Password too long")
	}
	return nil
}

type Accounts struct {
	db       *gorm.DB
	hasher   credential.Hasher
	sessions SessionStore
	auditor  Auditor
	logger   *zap.Logger
}

func NewAccounts(db *gorm.DB, hasher credential.Hasher, sessions SessionStore, auditor Auditor, logger *zap.Logger) *Accounts {
	if auditor == nil {
		auditor = NopAuditor
	}
	return &Accounts{db: db, hasher: hasher, sessions: sessions, auditor: auditor, logger: logger}
}

// Register creates the user together with a welcome message and returns a
// session for the new account.
func (a *Accounts) Register(ctx context.Context, req RegisterRequest) (*models.Session, error) {
	req.normalize()
	if err := req.validate(); err != nil {
		return nil, err
	}
	if err := a.checkAvailable(ctx, req.Mobile, req.Email); err != nil {
		return nil, err
	}

	digest, err := a.hasher.Hash(req.Password)
	if err != nil {
		return nil, storeError("hash password", err)
	}

	user := &models.User{
		Name:       req.Name,
		Mobile:     req.Mobile,
		Location:   req.Location,
		ProfilePic: req.ProfilePic,
		Password:   digest,
	}
	if req.Email != "" {
		user.Email = &req.Email
	}

	err = a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return storeError("create user", err)
		}
		_, err := appendMessage(tx, user.ID, models.SenderWelcome, fmt.Sprintf("Welcome %s! Enjoy your meals.", user.Name))
		return err
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Lost a race with a concurrent registration; report which key collided.
		if dupErr := a.checkAvailable(ctx, req.Mobile, req.Email); dupErr != nil {
			return nil, dupErr
		}
	}
	if err != nil {
		a.logger.Error("Failed to create user", zap.String("mobile", req.Mobile), zap.Error(err))
		return nil, err
	}

	a.logger.Info("User registered", zap.Uint("user_id", user.ID))
	a.auditor.Record("register", strconv.FormatUint(uint64(user.ID), 10), map[string]interface{}{
		"name":   user.Name,
		"mobile": user.Mobile,
	})
	return a.openSession(ctx, user)
}

// checkAvailable reports ErrDuplicateMobile or ErrDuplicateEmail when either
// identifier already belongs to an account.
func (a *Accounts) checkAvailable(ctx context.Context, mobile, email string) error {
	taken, err := a.exists(ctx, "mobile = ?", mobile)
	if err != nil {
		return err
	}
	if taken {
		return fail(ErrDuplicateMobile, "Mobile number already registered. Please login.")
	}

	if email == "" {
		return nil
	}
	taken, err = a.exists(ctx, "email = ?", email)
	if err != nil {
		return err
	}
	if taken {
		return fail(ErrDuplicateEmail, "Email already registered. Please login.")
	}
	return nil
}

func (a *Accounts) exists(ctx context.Context, query string, arg interface{}) (bool, error) {
	var count int64
	if err := a.db.WithContext(ctx).Model(&models.User{}).Where(query, arg).Count(&count).Error; err != nil {
		a.logger.Error("Failed to look up user", zap.Error(err))
		return false, storeError("look up user", err)
	}
	return count > 0, nil
}

func (a *Accounts) Login(ctx context.Context, mobile, password string) (*models.Session, error) {
	mobile = strings.TrimSpace(mobile)

	var user models.User
	err := a.db.WithContext(ctx).Where("mobile = ?", mobile).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fail(ErrUnknownAccount, "No account found. Please register first.")
	}
	if err != nil {
		a.logger.Error("Failed to load user", zap.String("mobile", mobile), zap.Error(err))
		return nil, storeError("load user", err)
	}

	if !a.hasher.Verify(password, user.Password) {
		a.logger.Info("Rejected login", zap.Uint("user_id", user.ID))
		return nil, fail(ErrInvalidCredential, "Incorrect password")
	}

	a.auditor.Record("login", strconv.FormatUint(uint64(user.ID), 10), nil)
	return a.openSession(ctx, &user)
}

func (a *Accounts) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := a.sessions.Delete(ctx, token); err != nil {
		a.logger.Error("Failed to delete session", zap.Error(err))
		return storeError("delete session", err)
	}
	return nil
}

// Authenticate resolves a session token to the user it was issued for.
func (a *Accounts) Authenticate(ctx context.Context, token string) (uint, error) {
	if token == "" {
		return 0, fail(ErrUnauthenticated, "Please login")
	}
	userID, err := a.sessions.Lookup(ctx, token)
	if errors.Is(err, repository.ErrSessionNotFound) {
		return 0, fail(ErrUnauthenticated, "Please login")
	}
	if err != nil {
		a.logger.Error("Failed to look up session", zap.Error(err))
		return 0, storeError("look up session", err)
	}
	return userID, nil
}

func (a *Accounts) User(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	err := a.db.WithContext(ctx).First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fail(ErrNotFound, "User not found")
	}
	if err != nil {
		return nil, storeError("load user", err)
	}
	return &user, nil
}

func (a *Accounts) openSession(ctx context.Context, user *models.User) (*models.Session, error) {
	session, err := a.sessions.Create(ctx, user.ID)
	if err != nil {
		a.logger.Error("Failed to create session", zap.Uint("user_id", user.ID), zap.Error(err))
		return nil, storeError("create session", err)
	}
	session.User = user
	return session, nil
}
