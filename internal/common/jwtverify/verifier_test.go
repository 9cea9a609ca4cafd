package jwtverify

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	commonerrors "github.com/boardsync/backend/internal/common/errors"
)

func assertInvalidToken(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error")
	}
	de, ok := commonerrors.AsDomainError(err)
	if !ok || de.Code() != "INVALID_TOKEN" {
		t.Errorf("expected INVALID_TOKEN, got %v", err)
	}
}

func setupVerifier(t *testing.T) (*Verifier, *rsa.PrivateKey) {
	t.Helper()

	privKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	der, err := x509.MarshalPKIXPublicKey(&privKey.PublicKey)
	if err != nil {
		t.Fatalf("failed to marshal public key: %v", err)
	}

	verifier, err := New(base64.StdEncoding.EncodeToString(der), "account")
	if err != nil {
		t.Fatalf("failed to build verifier: %v", err)
	}
	return verifier, privKey
}

func signRS256(t *testing.T, key *rsa.PrivateKey, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"aud":                "account",
		"exp":                time.Now().Add(time.Hour).Unix(),
		"preferred_username": "alice",
		"email":              "alice@example.com",
		"email_verified":     true,
		"name":               "Alice Liddell",
	}
}

func TestVerifier_Verify_Success(t *testing.T) {
	verifier, key := setupVerifier(t)

	claims, err := verifier.Verify(signRS256(t, key, validClaims()))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if claims.PreferredUsername != "alice" {
		t.Errorf("expected username alice, got %s", claims.PreferredUsername)
	}
	if claims.Email != "alice@example.com" {
		t.Errorf("expected email alice@example.com, got %s", claims.Email)
	}
	if !claims.EmailVerified {
		t.Error("expected email_verified true")
	}
	if claims.Name != "Alice Liddell" {
		t.Errorf("expected name Alice Liddell, got %s", claims.Name)
	}
}

func TestVerifier_Verify_WrongAudience(t *testing.T) {
	verifier, key := setupVerifier(t)

	claims := validClaims()
	claims["aud"] = "other-service"

	_, err := verifier.Verify(signRS256(t, key, claims))
	assertInvalidToken(t, err)
}

func TestVerifier_Verify_Expired(t *testing.T) {
	verifier, key := setupVerifier(t)

	claims := validClaims()
	claims["exp"] = time.Now().Add(-time.Hour).Unix()

	_, err := verifier.Verify(signRS256(t, key, claims))
	assertInvalidToken(t, err)
}

func TestVerifier_Verify_WrongKey(t *testing.T) {
	verifier, _ := setupVerifier(t)

	otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}

	_, verr := verifier.Verify(signRS256(t, otherKey, validClaims()))
	assertInvalidToken(t, verr)
}

func TestVerifier_Verify_RejectsHMAC(t *testing.T) {
	verifier, _ := setupVerifier(t)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, validClaims()).
		SignedString([]byte("shared-secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	_, verr := verifier.Verify(token)
	assertInvalidToken(t, verr)
}

func TestVerifier_Verify_MissingUsername(t *testing.T) {
	verifier, key := setupVerifier(t)

	claims := validClaims()
	delete(claims, "preferred_username")

	_, err := verifier.Verify(signRS256(t, key, claims))
	if err == nil {
		t.Fatal("expected error")
	}
	de, ok := commonerrors.AsDomainError(err)
	if !ok || de.Code() != "MISSING_TOKEN_CLAIMS" {
		t.Errorf("expected MISSING_TOKEN_CLAIMS, got %v", err)
	}
}

func TestVerifier_Verify_Garbage(t *testing.T) {
	verifier, _ := setupVerifier(t)

	_, err := verifier.Verify("not-a-jwt")
	assertInvalidToken(t, err)
}

func TestNew_InvalidKeyBody(t *testing.T) {
	if _, err := New("definitely not base64 der", "account"); err == nil {
		t.Fatal("expected error for invalid key body")
	}
}
