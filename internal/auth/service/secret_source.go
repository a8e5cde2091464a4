package service

import (
	"context"
	"encoding/base64"

	"gocloud.dev/secrets"

	// Keeper drivers resolved by URI scheme.
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"

	"github.com/pfm-dashboard/backend/internal/errors"
)

// SecretSourceConfig selects where the token signing secret comes from.
// When EncryptedSecret is set it takes precedence over PlainSecret and is
// decrypted through the keeper at KeyURI.
type SecretSourceConfig struct {
	PlainSecret     string
	EncryptedSecret string
	KeyURI          string
}

// ResolveSigningSecret returns the session token signing secret, decrypting
// it through a KMS keeper when an encrypted form is configured.
func ResolveSigningSecret(ctx context.Context, cfg SecretSourceConfig) ([]byte, error) {
	if cfg.EncryptedSecret != "" {
		if cfg.KeyURI == "" {
			return nil, errors.New("KMS_KEY_URI is required when TOKEN_SECRET_ENCRYPTED is set")
		}
		return decryptSecret(ctx, cfg.EncryptedSecret, cfg.KeyURI)
	}

	if cfg.PlainSecret == "" {
		return nil, errors.New("no token signing secret configured")
	}

	return []byte(cfg.PlainSecret), nil
}

func decryptSecret(ctx context.Context, encoded, keyURI string) ([]byte, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode encrypted token secret")
	}

	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open secrets keeper")
	}
	defer func() { _ = keeper.Close() }()

	plaintext, err := keeper.Decrypt(ctx, ciphertext)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decrypt token secret")
	}

	return plaintext, nil
}
