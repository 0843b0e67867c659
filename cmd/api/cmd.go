package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/geonotify/notify-backend/internal/bootstrap"
	"github.com/geonotify/notify-backend/internal/config"
	"github.com/geonotify/notify-backend/internal/crypto"
	"github.com/geonotify/notify-backend/internal/handlers"
	"github.com/geonotify/notify-backend/internal/response"
	"github.com/geonotify/notify-backend/internal/router"
	"github.com/geonotify/notify-backend/internal/services"
	"github.com/geonotify/notify-backend/internal/store"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	// bootstrap; a .env file is optional and only used for local runs
	godotenv.Load()
	cfg := config.New()
	bs, err := bootstrap.Run(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	// helpers
	kmsHelper := crypto.NewKMS(bs.KMS, cfg.KMSKeyName)

	// stores
	cstore := store.NewCredentialsStore(bs.Secrets, cfg.ProjectID)
	tstore := store.NewTemplateStore(bs.Firestore, kmsHelper, cstore)
	rstore := store.NewRoleStore(bs.Firestore)

	// services
	tserv := services.NewTemplateService(tstore)
	pserv := services.NewPreviewService(bs.FeatureAdapter, cfg.SampleLimit)
	sserv := services.NewSendService(tstore, pserv, bs.BrevoAdapter)
	adserv := services.NewAdminService(bs.Firebase, rstore)
	aserv := services.NewAssistService(bs.VertexAdapter)
	crserv := services.NewCredentialsService(cstore)

	// response handler
	rh := response.New(bs.Log)

	// dependancies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = rh
	deps.Validate = validator.New()
	deps.Firebase = bs.Firebase
	deps.Roles = rstore
	deps.TemplateSvc = tserv
	deps.PreviewSvc = pserv
	deps.SendSvc = sserv
	deps.AdminSvc = adserv
	deps.AssistSvc = aserv
	deps.CredentialsSvc = crserv

	// router
	r := router.NewRouter(deps)
	err = http.ListenAndServe(":8080", r)
	exitOnError("server start failed", err, bs.Log)
}
