package store

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/geonotify/notify-backend/internal/errs"
)

// roleDoc is the stored role record for one auth uid.
type roleDoc struct {
	SuperAdmin bool     `firestore:"superAdmin"`
	OrgIDs     []string `firestore:"orgIds"`
}

type roleStore struct {
	client     *firestore.Client
	collection *firestore.CollectionRef
}

func NewRoleStore(client *firestore.Client) *roleStore {
	return &roleStore{
		client:     client,
		collection: client.Collection("roles"),
	}
}

// IsSuperAdmin reports whether the uid holds the super-admin role. A
// missing role document means no.
func (s *roleStore) IsSuperAdmin(ctx context.Context, uid string) (bool, error) {
	doc, err := s.collection.Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, errs.NewDatabaseError("read", "failed to read role", err)
	}
	var role roleDoc
	if err := doc.DataTo(&role); err != nil {
		return false, errs.NewDatabaseError("read", "failed to parse role", err)
	}
	return role.SuperAdmin, nil
}

// Delete removes the role document for a uid. Deleting a missing document
// is not an error.
func (s *roleStore) Delete(ctx context.Context, uid string) error {
	if _, err := s.collection.Doc(uid).Delete(ctx); err != nil {
		return errs.NewDatabaseError("delete", "failed to delete role", err)
	}
	return nil
}

// MemberOf reports whether the uid belongs to an org.
func (s *roleStore) MemberOf(ctx context.Context, uid, orgID string) (bool, error) {
	doc, err := s.collection.Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, errs.NewDatabaseError("read", "failed to read role", err)
	}
	var role roleDoc
	if err := doc.DataTo(&role); err != nil {
		return false, errs.NewDatabaseError("read", "failed to parse role", err)
	}
	if role.SuperAdmin {
		return true, nil
	}
	for _, id := range role.OrgIDs {
		if id == orgID {
			return true, nil
		}
	}
	return false, nil
}
