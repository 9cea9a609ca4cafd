package jwtverify

import (
	"crypto/rsa"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	commonerrors "github.com/boardsync/backend/internal/common/errors"
)

// Claims is the identity claim set extracted from a verified bearer token.
type Claims struct {
	Email             string
	EmailVerified     bool
	Name              string
	PreferredUsername string
}

// Verifier validates RS256 bearer tokens issued for the configured audience.
// The public key is the base64 body of the issuer's PEM key, without armor,
// which is how Keycloak exposes it in the realm settings.
type Verifier struct {
	publicKey *rsa.PublicKey
	audience  string
}

func New(publicKeyBody, audience string) (*Verifier, error) {
	pemKey := fmt.Sprintf("-----BEGIN PUBLIC KEY-----\n%s\n-----END PUBLIC KEY-----", strings.TrimSpace(publicKeyBody))

	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pemKey))
	if err != nil {
		return nil, fmt.Errorf("failed to parse issuer public key: %w", err)
	}

	return &Verifier{
		publicKey: key,
		audience:  audience,
	}, nil
}

// Verify checks the token signature, expiry and audience, and maps the
// claim set. Fails with ErrInvalidToken on any verification problem.
func (v *Verifier) Verify(tokenString string) (Claims, error) {
	parsed, err := jwt.Parse(
		tokenString,
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
				return nil, fmt.Errorf("unexpected signing method %q", token.Method.Alg())
			}
			return v.publicKey, nil
		},
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithAudience(v.audience),
	)
	if err != nil {
		return Claims{}, commonerrors.ErrInvalidToken.WithCause(err)
	}
	if !parsed.Valid {
		return Claims{}, commonerrors.ErrInvalidToken
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, commonerrors.ErrInvalidToken
	}

	username, _ := mapClaims["preferred_username"].(string)
	if username == "" {
		return Claims{}, commonerrors.ErrMissingTokenClaims
	}

	email, _ := mapClaims["email"].(string)
	emailVerified, _ := mapClaims["email_verified"].(bool)
	name, _ := mapClaims["name"].(string)

	return Claims{
		Email:             email,
		EmailVerified:     emailVerified,
		Name:              name,
		PreferredUsername: username,
	}, nil
}
