package auth

import (
	"testing"
	"time"

	"github.com/asafto/kdog-server/internal/domain"
)

func testUser() *domain.User {
	return &domain.User{
		ID:    "u-123",
		Name:  "Dana",
		Email: "dana@example.com",
		Role:  domain.RoleRegular,
	}
}

func TestIssueParse(t *testing.T) {
	j := &JWTer{Secret: []byte("unit-test-secret"), Issuer: "kdog-test", TTL: time.Hour}

	token, err := j.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := j.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.UID != "u-123" || claims.Email != "dana@example.com" || claims.Role != domain.RoleRegular {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	caller := claims.Caller()
	if caller.ID != "u-123" || caller.IsAdmin() {
		t.Fatalf("unexpected caller: %+v", caller)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	j := &JWTer{Secret: []byte("secret-a"), Issuer: "kdog-test", TTL: time.Hour}
	token, err := j.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	other := &JWTer{Secret: []byte("secret-b"), Issuer: "kdog-test", TTL: time.Hour}
	if _, err := other.Parse(token); err == nil {
		t.Fatal("expected parse failure with wrong secret")
	}
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	j := &JWTer{Secret: []byte("secret"), Issuer: "someone-else", TTL: time.Hour}
	token, err := j.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	ours := &JWTer{Secret: []byte("secret"), Issuer: "kdog-test", TTL: time.Hour}
	if _, err := ours.Parse(token); err == nil {
		t.Fatal("expected parse failure with wrong issuer")
	}
}

func TestParseRejectsExpired(t *testing.T) {
	// TTL well past the 60s parse leeway
	j := &JWTer{Secret: []byte("secret"), Issuer: "kdog-test", TTL: -2 * time.Minute}
	token, err := j.Issue(testUser())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := j.Parse(token); err == nil {
		t.Fatal("expected parse failure for expired token")
	}
}
