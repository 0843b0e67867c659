package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"firebase.google.com/go/v4/auth"

	"github.com/geonotify/notify-backend/internal/dto"
	"github.com/geonotify/notify-backend/internal/errs"
	"github.com/geonotify/notify-backend/pkg/helpers"
)

// --- Fakes ---

type fakeAuthClient struct {
	missing map[string]struct{}
	err     error
	batches [][]auth.UserIdentifier
}

func (f *fakeAuthClient) GetUsers(_ context.Context, identifiers []auth.UserIdentifier) (*auth.GetUsersResult, error) {
	f.batches = append(f.batches, identifiers)
	if f.err != nil {
		return nil, f.err
	}
	result := &auth.GetUsersResult{}
	for _, id := range identifiers {
		uid := id.(auth.UIDIdentifier).UID
		if _, gone := f.missing[uid]; gone {
			result.NotFound = append(result.NotFound, id)
		} else {
			result.Users = append(result.Users, &auth.UserRecord{UserInfo: &auth.UserInfo{UID: uid}})
		}
	}
	return result, nil
}

type fakeRoleStore struct {
	super     map[string]bool
	deleted   []string
	deleteErr error
}

func (f *fakeRoleStore) IsSuperAdmin(_ context.Context, uid string) (bool, error) {
	return f.super[uid], nil
}

func (f *fakeRoleStore) Delete(_ context.Context, uid string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, uid)
	return nil
}

// --- Tests ---

func TestVerifyUsersRemovesRolesOfDeletedUsers(t *testing.T) {
	authClient := &fakeAuthClient{missing: map[string]struct{}{"u2": {}, "u4": {}}}
	roles := &fakeRoleStore{super: map[string]bool{"admin": true}}
	svc := NewAdminService(authClient, roles)

	resp, err := svc.VerifyUsers(helpers.TestCtx(), "admin", dto.VerifyUsersRequest{
		UIDs: []string{"u1", "u2", "u3", "u4"},
	})
	if err != nil {
		t.Fatalf("VerifyUsers: %v", err)
	}
	if len(resp.DeletedUIDs) != 2 || resp.DeletedUIDs[0] != "u2" || resp.DeletedUIDs[1] != "u4" {
		t.Errorf("deleted = %v, want [u2 u4]", resp.DeletedUIDs)
	}
	if len(roles.deleted) != 2 {
		t.Errorf("role docs deleted = %v", roles.deleted)
	}
}

func TestVerifyUsersBatchesAtBackendLimit(t *testing.T) {
	authClient := &fakeAuthClient{}
	roles := &fakeRoleStore{super: map[string]bool{"admin": true}}
	svc := NewAdminService(authClient, roles)

	uids := make([]string, 250)
	for i := range uids {
		uids[i] = fmt.Sprintf("u%03d", i)
	}
	if _, err := svc.VerifyUsers(helpers.TestCtx(), "admin", dto.VerifyUsersRequest{UIDs: uids}); err != nil {
		t.Fatalf("VerifyUsers: %v", err)
	}

	if len(authClient.batches) != 3 {
		t.Fatalf("backend calls = %d, want 3", len(authClient.batches))
	}
	for i, want := range []int{100, 100, 50} {
		if len(authClient.batches[i]) != want {
			t.Errorf("batch %d size = %d, want %d", i, len(authClient.batches[i]), want)
		}
	}
}

func TestVerifyUsersRequiresSuperAdmin(t *testing.T) {
	svc := NewAdminService(&fakeAuthClient{}, &fakeRoleStore{super: map[string]bool{}})

	_, err := svc.VerifyUsers(helpers.TestCtx(), "mortal", dto.VerifyUsersRequest{UIDs: []string{"u1"}})
	if _, ok := err.(*errs.PermissionError); !ok {
		t.Fatalf("err = %v, want PermissionError", err)
	}
}

func TestVerifyUsersRequiresIdentity(t *testing.T) {
	svc := NewAdminService(&fakeAuthClient{}, &fakeRoleStore{})

	_, err := svc.VerifyUsers(helpers.TestCtx(), "", dto.VerifyUsersRequest{UIDs: []string{"u1"}})
	if _, ok := err.(*errs.AuthRequiredError); !ok {
		t.Fatalf("err = %v, want AuthRequiredError", err)
	}
}

func TestVerifyUsersBackendFailure(t *testing.T) {
	authClient := &fakeAuthClient{err: errors.New("unavailable")}
	roles := &fakeRoleStore{super: map[string]bool{"admin": true}}
	svc := NewAdminService(authClient, roles)

	_, err := svc.VerifyUsers(helpers.TestCtx(), "admin", dto.VerifyUsersRequest{UIDs: []string{"u1"}})
	var external *errs.ExternalServiceError
	if !errors.As(err, &external) {
		t.Fatalf("err = %v, want ExternalServiceError", err)
	}
	if !external.Transient {
		t.Error("backend failure not marked transient")
	}
}
