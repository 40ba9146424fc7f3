package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"gocloud.dev/secrets"
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"

	cryptoDomain "github.com/allisson/envkeys/internal/crypto/domain"
)

// ErrKMSKeyURI is returned when KMS_KEY_URI does not name a registered provider.
var ErrKMSKeyURI = errors.New("invalid kms key uri")

// KMSService opens keepers that wrap and unwrap the encryption key.
type KMSService interface {
	OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error)
}

type kmsService struct {
	mux *secrets.URLMux
}

// NewKMSService resolves key URIs through the gocloud default mux, where the
// awskms, azurekeyvault, gcpkms, hashivault and base64key providers are registered.
func NewKMSService() KMSService {
	return &kmsService{mux: secrets.DefaultURLMux()}
}

// OpenKeeper checks the provider scheme before dialing it. Scheme errors leave
// the URI out since a base64key URI carries the key itself.
func (k *kmsService) OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error) {
	u, err := url.Parse(keyURI)
	if err != nil || u.Scheme == "" {
		return nil, fmt.Errorf("%w: missing provider scheme", ErrKMSKeyURI)
	}
	if !k.mux.ValidKeeperScheme(u.Scheme) {
		return nil, fmt.Errorf("%w: unknown provider %q (registered: %s)",
			ErrKMSKeyURI, u.Scheme, strings.Join(k.mux.KeeperSchemes(), ", "))
	}

	keeper, err := k.mux.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("open %s keeper: %w", u.Scheme, err)
	}
	return keeper, nil
}
