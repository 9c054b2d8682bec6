// internal/platform/di/storefront/secret_provider_sm.go
package storefront

import (
	"context"
	"errors"
	"fmt"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	secretmanagerpb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

// Secret Manager ids for values that may be left out of the environment.
const (
	SecretFirebaseWebAPIKey = "storefront-firebase-web-api-key"
	SecretSendGridAPIKey    = "storefront-sendgrid-api-key"
)

var errSecretProviderNotConfigured = errors.New("di.storefront: secret provider not configured")

type secretProviderSM struct {
	sm        *secretmanager.Client
	projectID string
	version   string
}

// Get returns the trimmed payload of projects/<p>/secrets/<id>/versions/<v>.
func (p *secretProviderSM) Get(ctx context.Context, secretID string) (string, error) {
	if p == nil || p.sm == nil {
		return "", errSecretProviderNotConfigured
	}
	prj := strings.TrimSpace(p.projectID)
	if prj == "" {
		return "", errors.New("secretProviderSM: projectID is empty")
	}
	ver := strings.TrimSpace(p.version)
	if ver == "" {
		ver = "latest"
	}

	name := "projects/" + prj + "/secrets/" + strings.TrimSpace(secretID) + "/versions/" + ver
	resp, err := p.sm.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		return "", fmt.Errorf("secretProviderSM: AccessSecretVersion failed (%s): %w", name, err)
	}
	if resp == nil || resp.Payload == nil {
		return "", fmt.Errorf("secretProviderSM: empty payload (%s)", name)
	}
	return strings.TrimSpace(string(resp.Payload.Data)), nil
}

// resolve returns envValue when set, otherwise the secret (best-effort: a
// lookup failure yields "").
func (p *secretProviderSM) resolve(ctx context.Context, envValue, secretID string) (string, error) {
	if v := strings.TrimSpace(envValue); v != "" {
		return v, nil
	}
	return p.Get(ctx, secretID)
}
