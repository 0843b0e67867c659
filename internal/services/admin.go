package services

import (
	"context"

	"firebase.google.com/go/v4/auth"

	"github.com/geonotify/notify-backend/internal/dto"
	"github.com/geonotify/notify-backend/internal/errs"
	"github.com/geonotify/notify-backend/pkg/logger"
)

// verifyUsersBatchSize is the Firebase GetUsers per-call identifier limit.
const verifyUsersBatchSize = 100

// authClient is the Firebase Auth surface used for bulk user lookup.
type authClient interface {
	GetUsers(ctx context.Context, identifiers []auth.UserIdentifier) (*auth.GetUsersResult, error)
}

// roleStore answers role questions and cleans up role documents.
type roleStore interface {
	IsSuperAdmin(ctx context.Context, uid string) (bool, error)
	Delete(ctx context.Context, uid string) error
}

type adminService struct {
	auth  authClient
	roles roleStore
}

func NewAdminService(authClient authClient, roles roleStore) *adminService {
	return &adminService{auth: authClient, roles: roles}
}

// VerifyUsers checks which of the given uids still exist in Firebase Auth,
// removes the role documents of the ones that do not, and reports them.
// Restricted to super admins; callerUID is the authenticated caller.
func (s *adminService) VerifyUsers(ctx context.Context, callerUID string, req dto.VerifyUsersRequest) (dto.VerifyUsersResponse, error) {
	if callerUID == "" {
		return dto.VerifyUsersResponse{}, errs.NewAuthRequiredError("authentication required")
	}
	isAdmin, err := s.roles.IsSuperAdmin(ctx, callerUID)
	if err != nil {
		return dto.VerifyUsersResponse{}, err
	}
	if !isAdmin {
		return dto.VerifyUsersResponse{}, errs.NewPermissionError("super admin role required")
	}

	log := logger.FromContext(ctx)
	deleted := []string{}

	for start := 0; start < len(req.UIDs); start += verifyUsersBatchSize {
		end := start + verifyUsersBatchSize
		if end > len(req.UIDs) {
			end = len(req.UIDs)
		}
		batch := req.UIDs[start:end]

		identifiers := make([]auth.UserIdentifier, 0, len(batch))
		for _, uid := range batch {
			identifiers = append(identifiers, auth.UIDIdentifier{UID: uid})
		}

		result, err := s.auth.GetUsers(ctx, identifiers)
		if err != nil {
			return dto.VerifyUsersResponse{}, errs.NewExternalServiceError("firebase-auth",
				"user lookup failed", true, err)
		}

		for _, id := range result.NotFound {
			uidID, ok := id.(auth.UIDIdentifier)
			if !ok {
				continue
			}
			if err := s.roles.Delete(ctx, uidID.UID); err != nil {
				log.Error("failed to remove role for deleted user", "uid", uidID.UID, "error", err)
				return dto.VerifyUsersResponse{}, err
			}
			deleted = append(deleted, uidID.UID)
		}
	}

	if len(deleted) > 0 {
		log.Info("removed roles for deleted users", "count", len(deleted))
	}
	return dto.VerifyUsersResponse{DeletedUIDs: deleted}, nil
}
