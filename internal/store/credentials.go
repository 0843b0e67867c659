package store

import (
	"context"
	"encoding/json"
	"fmt"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/geonotify/notify-backend/internal/errs"
)

// Secret path
// projects/{project}/secrets/feature-credentials-{orgID}/versions/{version}

// featureCredentials is the secret payload: the account the proxy uses to
// reach an org's private feature services.
type featureCredentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type credentialsStore struct {
	client    *secretmanager.Client
	projectID string
	prefix    string
}

func NewCredentialsStore(client *secretmanager.Client, projectID string) *credentialsStore {
	return &credentialsStore{
		client:    client,
		projectID: projectID,
		prefix:    "feature-credentials",
	}
}

func (s *credentialsStore) secretID(orgID string) string {
	return fmt.Sprintf("%s-%s", s.prefix, orgID)
}

func (s *credentialsStore) secretName(orgID string) string {
	return fmt.Sprintf("projects/%s/secrets/%s", s.projectID, s.secretID(orgID))
}

func (s *credentialsStore) ensureSecret(ctx context.Context, orgID string) error {
	_, err := s.client.GetSecret(ctx, &secretmanagerpb.GetSecretRequest{Name: s.secretName(orgID)})
	if status.Code(err) == codes.NotFound {
		_, err = s.client.CreateSecret(ctx, &secretmanagerpb.CreateSecretRequest{
			Parent:   fmt.Sprintf("projects/%s", s.projectID),
			SecretId: s.secretID(orgID),
			Secret: &secretmanagerpb.Secret{
				Replication: &secretmanagerpb.Replication{
					Replication: &secretmanagerpb.Replication_Automatic_{Automatic: &secretmanagerpb.Replication_Automatic{}},
				},
			},
		})
	}
	return err
}

func (s *credentialsStore) StoreCredentials(ctx context.Context, orgID, username, password string) error {
	if err := s.ensureSecret(ctx, orgID); err != nil {
		return errs.NewDatabaseError("update", "failed to create credentials secret", err)
	}
	payload, err := json.Marshal(featureCredentials{Username: username, Password: password})
	if err != nil {
		return errs.NewDatabaseError("update", "failed to encode credentials", err)
	}
	_, err = s.client.AddSecretVersion(ctx, &secretmanagerpb.AddSecretVersionRequest{
		Parent: s.secretName(orgID),
		Payload: &secretmanagerpb.SecretPayload{
			Data: payload,
		},
	})
	if err != nil {
		return errs.NewDatabaseError("update", "failed to store credentials", err)
	}
	return nil
}

func (s *credentialsStore) GetCredentials(ctx context.Context, orgID string) (string, string, error) {
	res, err := s.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: fmt.Sprintf("%s/versions/latest", s.secretName(orgID)),
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return "", "", errs.NewNotFoundError("credentials not configured")
		}
		return "", "", errs.NewDatabaseError("read", "failed to access credentials", err)
	}
	var creds featureCredentials
	if err := json.Unmarshal(res.Payload.Data, &creds); err != nil {
		return "", "", errs.NewDatabaseError("read", "failed to decode credentials", err)
	}
	return creds.Username, creds.Password, nil
}

func (s *credentialsStore) DeleteCredentials(ctx context.Context, orgID string) error {
	err := s.client.DeleteSecret(ctx, &secretmanagerpb.DeleteSecretRequest{
		Name: s.secretName(orgID),
	})
	if err != nil && status.Code(err) != codes.NotFound {
		return errs.NewDatabaseError("delete", "failed to delete credentials", err)
	}
	return nil
}
