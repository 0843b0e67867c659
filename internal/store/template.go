package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/geonotify/notify-backend/internal/errs"
	"github.com/geonotify/notify-backend/internal/models"
)

// kmsHelper is the crypto surface used to protect stored data-source
// passwords.
type kmsHelper interface {
	Encrypt(ctx context.Context, plaintext string) (string, error)
	Decrypt(ctx context.Context, ciphertext string) (string, error)
}

// orgCredentials looks up an org's shared feature-service account, used when
// a template does not carry its own.
type orgCredentials interface {
	GetCredentials(ctx context.Context, orgID string) (string, string, error)
}

type templateStore struct {
	client *firestore.Client
	kms    kmsHelper
	creds  orgCredentials
}

func NewTemplateStore(client *firestore.Client, kms kmsHelper, creds orgCredentials) *templateStore {
	return &templateStore{client: client, kms: kms, creds: creds}
}

func (s *templateStore) collection(orgID string) *firestore.CollectionRef {
	return s.client.Collection("orgs").Doc(orgID).Collection("templates")
}

// knownTemplateKeys are the document keys this service models. Anything
// else on a loaded document is carried in Extra and written back verbatim
// on save, so other clients' fields survive a round trip.
var knownTemplateKeys = map[string]struct{}{
	"templateId":     {},
	"name":           {},
	"html":           {},
	"includeCSV":     {},
	"theme":          {},
	"branding":       {},
	"statistics":     {},
	"visualElements": {},
	"dataSource":     {},
	"createdAt":      {},
	"updatedAt":      {},
}

func (s *templateStore) Get(ctx context.Context, orgID, templateID string) (*models.Template, error) {
	doc, err := s.collection(orgID).Doc(templateID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("template not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get template", err)
	}

	var tmpl models.Template
	if err := doc.DataTo(&tmpl); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse template data", err)
	}

	tmpl.Extra = map[string]any{}
	for key, value := range doc.Data() {
		if _, known := knownTemplateKeys[key]; !known {
			tmpl.Extra[key] = value
		}
	}

	if tmpl.DataSource.Password != "" {
		plaintext, err := s.kms.Decrypt(ctx, tmpl.DataSource.Password)
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to decrypt data source credentials", err)
		}
		tmpl.DataSource.Password = plaintext
	}

	// templates without their own account fall back to the org-level one
	if s.creds != nil && tmpl.DataSource.Endpoint != "" && tmpl.DataSource.Username == "" {
		if username, password, err := s.creds.GetCredentials(ctx, orgID); err == nil {
			tmpl.DataSource.Username = username
			tmpl.DataSource.Password = password
			tmpl.DataSource.FromOrg = true
		}
	}

	return &tmpl, nil
}

func (s *templateStore) List(ctx context.Context, orgID string) ([]*models.Template, error) {
	docs, err := s.collection(orgID).OrderBy("updatedAt", firestore.Desc).Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list templates", err)
	}
	templates := make([]*models.Template, 0, len(docs))
	for _, d := range docs {
		var tmpl models.Template
		if err := d.DataTo(&tmpl); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse template data", err)
		}
		// listing omits credentials; Get decrypts when a single template is loaded
		tmpl.DataSource.Password = ""
		templates = append(templates, &tmpl)
	}
	return templates, nil
}

func (s *templateStore) Save(ctx context.Context, orgID string, tmpl *models.Template) error {
	now := time.Now()
	if tmpl.CreatedAt.IsZero() {
		tmpl.CreatedAt = now
	}
	tmpl.UpdatedAt = now

	username := tmpl.DataSource.Username
	password := tmpl.DataSource.Password
	if tmpl.DataSource.FromOrg {
		// org-hydrated credentials stay in Secret Manager only
		username, password = "", ""
	}
	if password != "" {
		encrypted, err := s.kms.Encrypt(ctx, password)
		if err != nil {
			return errs.NewDatabaseError("update", "failed to encrypt data source credentials", err)
		}
		password = encrypted
	}

	doc := make(map[string]any, len(tmpl.Extra)+len(knownTemplateKeys))
	for key, value := range tmpl.Extra {
		doc[key] = value
	}
	doc["templateId"] = tmpl.TemplateID
	doc["name"] = tmpl.Name
	doc["html"] = tmpl.HTML
	doc["includeCSV"] = tmpl.IncludeCSV
	doc["theme"] = tmpl.Theme
	doc["branding"] = tmpl.Branding
	doc["statistics"] = tmpl.Statistics
	doc["visualElements"] = tmpl.VisualElements
	doc["dataSource"] = models.DataSource{
		Endpoint: tmpl.DataSource.Endpoint,
		Username: username,
		Password: password,
	}
	doc["createdAt"] = tmpl.CreatedAt
	doc["updatedAt"] = tmpl.UpdatedAt

	if _, err := s.collection(orgID).Doc(tmpl.TemplateID).Set(ctx, doc); err != nil {
		return errs.NewDatabaseError("update", "failed to save template", err)
	}
	return nil
}

func (s *templateStore) Delete(ctx context.Context, orgID, templateID string) error {
	if _, err := s.collection(orgID).Doc(templateID).Delete(ctx); err != nil {
		return errs.NewDatabaseError("delete", "failed to delete template", err)
	}
	return nil
}
