// internal/platform/di/shared/infra.go
package shared

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	firebaseauth "firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	appcfg "storefront/internal/infra/config"
	firestoreinfra "storefront/internal/infra/firestore"
)

// Infra owns the Google Cloud clients shared by the storefront container.
//
//   - no project configured: local-only (every client nil)
//   - Firestore: strict when a project is configured
//   - GCS: strict only for STATE_BACKEND=gcs, otherwise best-effort
//   - Firebase Auth, Secret Manager: best-effort (warn + continue)
type Infra struct {
	Config    *appcfg.Config
	ProjectID string

	Firestore     *firestore.Client
	GCS           *storage.Client
	FirebaseApp   *firebase.App
	FirebaseAuth  *firebaseauth.Client
	SecretManager *secretmanager.Client

	fsWrapper *firestoreinfra.ClientWrapper
	log       *zap.Logger
}

func NewInfra(ctx context.Context, cfg *appcfg.Config, log *zap.Logger) (*Infra, error) {
	if cfg == nil {
		return nil, errors.New("shared.infra: config is nil")
	}
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("shared.infra")

	inf := &Infra{Config: cfg, ProjectID: resolveProjectID(cfg), log: log}
	if inf.ProjectID == "" {
		if cfg.StateBackend == appcfg.StateFirestore || cfg.StateBackend == appcfg.StateGCS {
			return nil, fmt.Errorf("shared.infra: projectID is empty (STATE_BACKEND=%s needs GCP_PROJECT_ID)", cfg.StateBackend)
		}
		log.Info("no GCP project configured; running local-only")
		return inf, nil
	}

	credFile := strings.TrimSpace(cfg.FirestoreCredentialsFile)
	if credFile == "" {
		credFile = strings.TrimSpace(cfg.GCPCreds)
	}
	var clientOpts []option.ClientOption
	if credFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(credFile))
		log.Info("using credentials file for GCP clients", zap.String("file", redactPath(credFile)))
	} else {
		log.Info("using Application Default Credentials")
	}

	// 1) Secret Manager (best-effort)
	if sm, err := secretmanager.NewClient(ctx, clientOpts...); err != nil {
		log.Warn("secretmanager.NewClient failed; secrets must come from env", zap.Error(err))
	} else {
		inf.SecretManager = sm
	}

	// 2) Firestore (strict)
	fsw, err := firestoreinfra.NewClient(ctx, inf.ProjectID, credFile, log)
	if err != nil {
		_ = inf.Close()
		return nil, fmt.Errorf("shared.infra: %w", err)
	}
	inf.fsWrapper = fsw
	inf.Firestore = fsw.Client

	// 3) GCS
	if gcs, err := storage.NewClient(ctx, clientOpts...); err != nil {
		if cfg.StateBackend == appcfg.StateGCS {
			_ = inf.Close()
			return nil, fmt.Errorf("shared.infra: storage.NewClient failed: %w", err)
		}
		log.Warn("storage.NewClient failed", zap.Error(err))
	} else {
		inf.GCS = gcs
	}

	// 4) Firebase App/Auth (best-effort)
	fbProject := cfg.FirebaseProjectID
	if fbProject == "" {
		fbProject = inf.ProjectID
	}
	if app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: fbProject}, clientOpts...); err != nil {
		log.Warn("firebase app init failed", zap.Error(err))
	} else {
		inf.FirebaseApp = app
		if authClient, err := app.Auth(ctx); err != nil {
			log.Warn("firebase auth init failed", zap.Error(err))
		} else {
			inf.FirebaseAuth = authClient
			log.Info("firebase auth initialized", zap.String("project", fbProject))
		}
	}

	return inf, nil
}

func (i *Infra) Close() error {
	if i == nil {
		return nil
	}
	if i.fsWrapper != nil {
		_ = i.fsWrapper.Close()
	}
	if i.GCS != nil {
		_ = i.GCS.Close()
	}
	if i.SecretManager != nil {
		_ = i.SecretManager.Close()
	}
	return nil
}

// resolveProjectID: FIRESTORE_PROJECT_ID, then GCP_PROJECT_ID, then
// FIREBASE_PROJECT_ID (config.Load already applied the GCP fallback).
func resolveProjectID(cfg *appcfg.Config) string {
	for _, v := range []string{cfg.FirestoreProjectID, cfg.GCPProjectID, cfg.FirebaseProjectID} {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

func redactPath(p string) string {
	p = strings.TrimSpace(p)
	if i := strings.LastIndexAny(p, `/\`); i >= 0 {
		return "…" + p[i:]
	}
	return p
}
