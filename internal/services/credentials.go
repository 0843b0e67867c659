package services

import (
	"context"

	"github.com/geonotify/notify-backend/internal/dto"
	"github.com/geonotify/notify-backend/internal/errs"
)

// credentialsStore is the secret storage interface for shared org accounts.
type credentialsStore interface {
	StoreCredentials(ctx context.Context, orgID, username, password string) error
	GetCredentials(ctx context.Context, orgID string) (string, string, error)
	DeleteCredentials(ctx context.Context, orgID string) error
}

type credentialsService struct {
	store credentialsStore
}

func NewCredentialsService(store credentialsStore) *credentialsService {
	return &credentialsService{store: store}
}

func (s *credentialsService) SetCredentials(ctx context.Context, orgID string, req dto.CredentialsRequest) error {
	return s.store.StoreCredentials(ctx, orgID, req.Username, req.Password)
}

// GetStatus reports whether credentials exist; the password stays server
// side.
func (s *credentialsService) GetStatus(ctx context.Context, orgID string) (dto.CredentialsStatus, error) {
	username, _, err := s.store.GetCredentials(ctx, orgID)
	if err != nil {
		if _, ok := err.(*errs.NotFoundError); ok {
			return dto.CredentialsStatus{Configured: false}, nil
		}
		return dto.CredentialsStatus{}, err
	}
	return dto.CredentialsStatus{Configured: true, Username: username}, nil
}

func (s *credentialsService) DeleteCredentials(ctx context.Context, orgID string) error {
	return s.store.DeleteCredentials(ctx, orgID)
}
