package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"social-publisher/domain/dto"
	"social-publisher/domain/model"
	"social-publisher/domain/repository"
	"social-publisher/infrastructure/logger"
)

// IAccountUseCase links a user's YouTube account.
type IAccountUseCase interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, userID, code string) (*dto.AccountStatus, error)
	Status(ctx context.Context, userID string) (*dto.AccountStatus, error)
}

type AccountUseCase struct {
	connector   repository.IAccountConnector
	credentials repository.IOAuthCredential
}

func NewAccountUseCase(connector repository.IAccountConnector, credentials repository.IOAuthCredential) IAccountUseCase {
	return &AccountUseCase{connector: connector, credentials: credentials}
}

// AuthURL returns the consent URL for the given anti-forgery state.
func (u *AccountUseCase) AuthURL(state string) string {
	return u.connector.AuthCodeURL(state)
}

func (u *AccountUseCase) Exchange(ctx context.Context, userID, code string) (*dto.AccountStatus, error) {
	code = strings.TrimSpace(code)
	if userID == "" || code == "" {
		return nil, fmt.Errorf("%w: code required", model.ErrInvalidInput)
	}
	cred, err := u.connector.Exchange(ctx, code)
	if err != nil {
		logger.GetLogger().WithField("user_id", userID).WithField("error", err).Error("Code exchange failed")
		return nil, err
	}
	cred.UserID = userID
	// an empty refresh token keeps the stored one
	if err := u.credentials.UpsertCredential(ctx, cred); err != nil {
		return nil, err
	}
	exp := cred.ExpiresAt
	return &dto.AccountStatus{Connected: true, ExpiresAt: &exp}, nil
}

func (u *AccountUseCase) Status(ctx context.Context, userID string) (*dto.AccountStatus, error) {
	cred, err := u.credentials.GetCredential(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		return &dto.AccountStatus{Connected: false}, nil
	}
	if err != nil {
		return nil, err
	}
	exp := cred.ExpiresAt
	return &dto.AccountStatus{Connected: true, ExpiresAt: &exp}, nil
}
