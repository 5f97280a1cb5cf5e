package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/briefboard/briefboard-server/internal/audit"
	"github.com/briefboard/briefboard-server/internal/config"
	apperrors "github.com/briefboard/briefboard-server/internal/errors"
	"github.com/briefboard/briefboard-server/internal/model"
	"github.com/briefboard/briefboard-server/internal/repository"
	"github.com/briefboard/briefboard-server/internal/util"
)

const (
	handleMaxLength   = 64
	passwordMinLength = 6
)

// AuthService implements login-or-auto-provision: the first successful login
// with an unseen handle creates the account. A configurable bootstrap handle
// receives the administrator role at creation time; existing accounts are
// never upgraded by this rule.
type AuthService struct {
	accounts             repository.AccountRepository
	sessions             repository.SessionRepository
	activity             *ActivityService
	sessionSecret        string
	bootstrapAdminHandle string
}

func NewAuthService(
	accounts repository.AccountRepository,
	sessions repository.SessionRepository,
	activity *ActivityService,
	sessionSecret, bootstrapAdminHandle string,
) *AuthService {
	return &AuthService{
		accounts:             accounts,
		sessions:             sessions,
		activity:             activity,
		sessionSecret:        sessionSecret,
		bootstrapAdminHandle: bootstrapAdminHandle,
	}
}

// LoginResult carries the resolved account, whether it was just created, and
// the session token to hand back as a cookie.
type LoginResult struct {
	Account *model.Account
	Created bool
	Token   string
}

// ResolveOrCreateAccount looks the handle up and provisions a new account if
// it has never been seen. Both outcomes are explicit in the return values. A
// lost race on the handle uniqueness constraint is resolved by a retry
// lookup.
func (s *AuthService) ResolveOrCreateAccount(ctx context.Context, handle, password string) (bool, *model.Account, error) {
	account, err := s.accounts.FindByHandle(ctx, handle)
	if err != nil {
		return false, nil, apperrors.Database(err)
	}
	if account != nil {
		return false, account, nil
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return false, nil, apperrors.Internal("Failed to process credentials").WithCause(err)
	}

	role := model.RoleStandard
	if handle == s.bootstrapAdminHandle {
		role = model.RoleAdministrator
	}

	account, err = s.accounts.Create(ctx, model.CreateAccountParams{
		Handle:       handle,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			account, err = s.accounts.FindByHandle(ctx, handle)
			if err != nil {
				return false, nil, apperrors.Database(err)
			}
			if account != nil {
				return false, account, nil
			}
		}
		return false, nil, apperrors.Database(err)
	}

	log.Info().
		Int64("accountId", account.ID).
		Str("role", string(account.Role)).
		Msg("account auto-provisioned")

	return true, account, nil
}

func (s *AuthService) Login(ctx context.Context, handle, password string) (*LoginResult, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, apperrors.MissingRequired("handle")
	}
	if len(handle) > handleMaxLength {
		return nil, apperrors.InvalidInput("handle", "too long")
	}
	if len(password) < passwordMinLength {
		return nil, apperrors.InvalidInput("password", "too short")
	}

	created, account, err := s.ResolveOrCreateAccount(ctx, handle, password)
	if err != nil {
		return nil, err
	}

	if !created {
		if account.IsBlocked() {
			audit.Log(ctx, audit.Event{
				Type:      audit.EventLoginBlocked,
				AccountID: account.ID,
				Handle:    handle,
			})
			return nil, apperrors.AccountBlocked()
		}
		if !util.CheckPasswordHash(password, account.PasswordHash) {
			audit.Log(ctx, audit.Event{
				Type:   audit.EventLoginFailure,
				Handle: handle,
			})
			return nil, apperrors.AuthFailed()
		}
	}

	if err := s.accounts.RecordLogin(ctx, account.ID); err != nil {
		log.Error().Err(err).Int64("accountId", account.ID).Msg("record login")
	}

	token, err := util.GenerateSessionToken()
	if err != nil {
		return nil, apperrors.Internal("Failed to create session").WithCause(err)
	}

	_, err = s.sessions.Create(ctx, model.CreateSessionParams{
		AccountID: account.ID,
		TokenHash: util.HmacSHA256(s.sessionSecret, token),
		ExpiresAt: time.Now().Add(config.SessionTTL),
	})
	if err != nil {
		return nil, apperrors.Database(err)
	}

	audit.Log(ctx, audit.Event{
		Type:      audit.EventLoginSuccess,
		AccountID: account.ID,
		Handle:    handle,
	})
	s.activity.Record(ctx, &account.ID, model.EventLogin, map[string]any{
		"created": created,
	})

	return &LoginResult{Account: account, Created: created, Token: token}, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	tokenHash := util.HmacSHA256(s.sessionSecret, token)
	session, err := s.sessions.FindByTokenHash(ctx, tokenHash)
	if err != nil {
		return apperrors.Database(err)
	}
	if session != nil {
		return s.sessions.Delete(ctx, session.ID)
	}
	return nil
}

// ValidateSession resolves a cookie token to its account, or nil for an
// expired, unknown, or blocked session.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (*model.Account, error) {
	tokenHash := util.HmacSHA256(s.sessionSecret, token)
	session, err := s.sessions.FindByTokenHash(ctx, tokenHash)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}

	account, err := s.accounts.FindByID(ctx, session.AccountID)
	if err != nil {
		return nil, err
	}
	if account == nil || account.IsBlocked() {
		return nil, nil
	}
	return account, nil
}
