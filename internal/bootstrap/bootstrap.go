package bootstrap

import (
	"context"
	"log/slog"

	"cloud.google.com/go/firestore"
	gcpkms "cloud.google.com/go/kms/apiv1"
	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"firebase.google.com/go/v4/auth"

	brevoclient "github.com/geonotify/notify-backend/internal/client/brevo"
	featureclient "github.com/geonotify/notify-backend/internal/client/feature"
	vertexclient "github.com/geonotify/notify-backend/internal/client/vertex"
	"github.com/geonotify/notify-backend/internal/config"
	"github.com/geonotify/notify-backend/pkg/logger"
)

type Bootstrap struct {
	Log            *slog.Logger
	Firestore      *firestore.Client
	Firebase       *auth.Client
	KMS            *gcpkms.KeyManagementClient
	Secrets        *secretmanager.Client
	FeatureAdapter *featureclient.Adapter
	BrevoAdapter   *brevoclient.Adapter
	VertexAdapter  *vertexclient.Adapter
}

func Run(cfg *config.Config) (*Bootstrap, error) {
	var err error
	applicationCtx := context.Background()
	bs := new(Bootstrap)

	bs.Log = logger.New(cfg.LogLevel, logger.NewCloudRunHandler)
	bs.Firestore, err = InitFirestore(applicationCtx, cfg.ProjectID)
	if err != nil {
		return bs, err
	}
	bs.Firebase, err = InitFirebase(applicationCtx)
	if err != nil {
		return bs, err
	}
	bs.KMS, err = InitKMS(applicationCtx)
	if err != nil {
		return bs, err
	}
	bs.Secrets, err = InitSecretManager(applicationCtx)
	if err != nil {
		return bs, err
	}
	bs.VertexAdapter, err = vertexclient.NewAdapter(applicationCtx, bs.Log, cfg.ProjectID, cfg.Region, cfg.VertexModel)
	if err != nil {
		return bs, err
	}

	bs.FeatureAdapter = featureclient.NewAdapter(cfg.ProxyBaseURL, cfg.ProxyTimeout)
	bs.BrevoAdapter = brevoclient.NewAdapter(cfg.BrevoBaseURL, cfg.BrevoAPIKey, brevoclient.Sender{
		Name:  cfg.SenderName,
		Email: cfg.SenderEmail,
	}, 0)

	return bs, nil
}

// Close releases every client the bootstrap opened. Safe on a partially
// initialized Bootstrap after a failed Run.
func (bs *Bootstrap) Close() {
	if bs.VertexAdapter != nil {
		bs.VertexAdapter.Close()
	}
	if bs.Secrets != nil {
		bs.Secrets.Close()
	}
	if bs.KMS != nil {
		bs.KMS.Close()
	}
	if bs.Firestore != nil {
		bs.Firestore.Close()
	}
}
