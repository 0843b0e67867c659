package store

import (
	"context"
	"os"
	"strings"
	"testing"

	"cloud.google.com/go/firestore"
)

// fakeKMS is a reversible stand-in so round-trip tests can assert what is
// stored without a real key ring.
type fakeKMS struct{}

func (fakeKMS) Encrypt(_ context.Context, plaintext string) (string, error) {
	return "enc:" + plaintext, nil
}

func (fakeKMS) Decrypt(_ context.Context, ciphertext string) (string, error) {
	return strings.TrimPrefix(ciphertext, "enc:"), nil
}

type fakeOrgCreds struct {
	username string
	password string
}

func (f fakeOrgCreds) GetCredentials(_ context.Context, _ string) (string, string, error) {
	return f.username, f.password, nil
}

func emulatorClient(t *testing.T) *firestore.Client {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	client, err := firestore.NewClient(context.Background(), "test-project")
	if err != nil {
		t.Fatalf("firestore client error: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestTemplateUnknownKeyRoundTripWithEmulator(t *testing.T) {
	ctx := context.Background()
	client := emulatorClient(t)
	store := NewTemplateStore(client, fakeKMS{}, nil)

	seed := map[string]any{
		"templateId": "t1",
		"name":       "Weekly report",
		"html":       "",
		"includeCSV": true,
		"dataSource": map[string]any{
			"endpoint": "https://example.com/layer/0",
			"username": "svc",
			"password": "enc:hunter2",
		},
		// keys this service does not model
		"legacyFlag": true,
		"owner":      "alice",
	}
	if _, err := client.Collection("orgs").Doc("org1").Collection("templates").Doc("t1").Set(ctx, seed); err != nil {
		t.Fatalf("seed template error: %v", err)
	}

	tmpl, err := store.Get(ctx, "org1", "t1")
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if tmpl.DataSource.Password != "hunter2" {
		t.Fatalf("password not decrypted: %q", tmpl.DataSource.Password)
	}
	if v, ok := tmpl.Extra["legacyFlag"]; !ok || v != true {
		t.Fatalf("unknown key legacyFlag not loaded: %v", tmpl.Extra)
	}
	if v, ok := tmpl.Extra["owner"]; !ok || v != "alice" {
		t.Fatalf("unknown key owner not loaded: %v", tmpl.Extra)
	}

	tmpl.Name = "Weekly report v2"
	if err := store.Save(ctx, "org1", tmpl); err != nil {
		t.Fatalf("save error: %v", err)
	}

	doc, err := client.Collection("orgs").Doc("org1").Collection("templates").Doc("t1").Get(ctx)
	if err != nil {
		t.Fatalf("raw read error: %v", err)
	}
	data := doc.Data()
	if data["name"] != "Weekly report v2" {
		t.Fatalf("name not updated: %v", data["name"])
	}
	if data["legacyFlag"] != true || data["owner"] != "alice" {
		t.Fatalf("unknown keys lost on save: %v", data)
	}
	ds, _ := data["dataSource"].(map[string]any)
	if ds["password"] != "enc:hunter2" {
		t.Fatalf("password not stored encrypted: %v", ds["password"])
	}
}

func TestTemplateOrgCredentialsNotPersistedWithEmulator(t *testing.T) {
	ctx := context.Background()
	client := emulatorClient(t)
	store := NewTemplateStore(client, fakeKMS{}, fakeOrgCreds{username: "org-user", password: "org-secret"})

	seed := map[string]any{
		"templateId": "t2",
		"name":       "No own account",
		"dataSource": map[string]any{
			"endpoint": "https://example.com/layer/0",
		},
	}
	if _, err := client.Collection("orgs").Doc("org1").Collection("templates").Doc("t2").Set(ctx, seed); err != nil {
		t.Fatalf("seed template error: %v", err)
	}

	tmpl, err := store.Get(ctx, "org1", "t2")
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if tmpl.DataSource.Username != "org-user" || tmpl.DataSource.Password != "org-secret" {
		t.Fatalf("org credentials not hydrated: %+v", tmpl.DataSource)
	}
	if !tmpl.DataSource.FromOrg {
		t.Fatal("hydrated credentials not marked as org-level")
	}

	if err := store.Save(ctx, "org1", tmpl); err != nil {
		t.Fatalf("save error: %v", err)
	}

	doc, err := client.Collection("orgs").Doc("org1").Collection("templates").Doc("t2").Get(ctx)
	if err != nil {
		t.Fatalf("raw read error: %v", err)
	}
	ds, _ := doc.Data()["dataSource"].(map[string]any)
	if u, ok := ds["username"]; ok && u != "" {
		t.Fatalf("org username persisted onto the document: %v", u)
	}
	if p, ok := ds["password"]; ok && p != "" {
		t.Fatalf("org secret persisted onto the document: %v", p)
	}
}
