package auth

import (
	"context"
	"errors"
	"testing"

	domain "github.com/example/taskhub/domain/user"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupService wires an AuthService against an in-memory database with
// a fast bcrypt cost.
func setupService(t *testing.T) *AuthService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&domain.User{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	repo := NewUserRepository(db)
	hasher := NewPasswordHasherWithCost(bcrypt.MinCost)
	jwtManager := NewJWTManager(JWTConfig{
		SecretKey:            "test-secret-key",
		AccessTokenDuration:  DefaultJWTConfig().AccessTokenDuration,
		RefreshTokenDuration: DefaultJWTConfig().RefreshTokenDuration,
		Issuer:               "test-issuer",
	})

	return NewAuthService(repo, hasher, jwtManager)
}

func TestAuthService_Register(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	t.Run("valid registration returns user and tokens", func(t *testing.T) {
		user, tokens, err := svc.Register(ctx, "alice", "alice@example.com", "secret1")
		if err != nil {
			t.Fatalf("Register() error = %v", err)
		}
		if user.ID == "" {
			t.Error("expected generated user ID")
		}
		if user.Username != "alice" {
			t.Errorf("Username = %q, want alice", user.Username)
		}
		if tokens.AccessToken == "" || tokens.RefreshToken == "" {
			t.Error("expected non-empty token pair")
		}
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		_, _, err := svc.Register(ctx, "alice2", "alice@example.com", "secret1")
		if !errors.Is(err, ErrUserExists) {
			t.Errorf("Register() error = %v, want ErrUserExists", err)
		}
	})

	t.Run("short username is rejected", func(t *testing.T) {
		_, _, err := svc.Register(ctx, "al", "al@example.com", "secret1")
		if !errors.Is(err, ErrUsernameTooShort) {
			t.Errorf("Register() error = %v, want ErrUsernameTooShort", err)
		}
	})

	t.Run("short password is rejected", func(t *testing.T) {
		_, _, err := svc.Register(ctx, "bob", "bob@example.com", "five5")
		if !errors.Is(err, ErrWeakPassword) {
			t.Errorf("Register() error = %v, want ErrWeakPassword", err)
		}
	})

	t.Run("malformed email is rejected", func(t *testing.T) {
		_, _, err := svc.Register(ctx, "bob", "not-an-email", "secret1")
		if !errors.Is(err, ErrInvalidEmail) {
			t.Errorf("Register() error = %v, want ErrInvalidEmail", err)
		}
	})
}

func TestAuthService_Login(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "carol", "carol@example.com", "secret1"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	t.Run("correct credentials", func(t *testing.T) {
		user, tokens, err := svc.Login(ctx, "carol@example.com", "secret1")
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if user.Username != "carol" {
			t.Errorf("Username = %q, want carol", user.Username)
		}

		claims, err := svc.ValidateToken(ctx, tokens.AccessToken)
		if err != nil {
			t.Fatalf("ValidateToken() error = %v", err)
		}
		if claims.UserID != user.ID || claims.Email != "carol@example.com" || claims.Username != "carol" {
			t.Errorf("claims = %+v, want carol's identity", claims)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "carol@example.com", "wrong-pass")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Login() error = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "nobody@example.com", "secret1")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Login() error = %v, want ErrInvalidCredentials", err)
		}
	})
}

func TestAuthService_RefreshTokens(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	_, tokens, err := svc.Register(ctx, "dave", "dave@example.com", "secret1")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	t.Run("refresh token yields a new pair", func(t *testing.T) {
		fresh, err := svc.RefreshTokens(ctx, tokens.RefreshToken)
		if err != nil {
			t.Fatalf("RefreshTokens() error = %v", err)
		}
		if _, err := svc.ValidateToken(ctx, fresh.AccessToken); err != nil {
			t.Errorf("ValidateToken(refreshed) error = %v", err)
		}
	})

	t.Run("access token cannot be used as refresh token", func(t *testing.T) {
		if _, err := svc.RefreshTokens(ctx, tokens.AccessToken); err == nil {
			t.Error("RefreshTokens(access token) error = nil, want error")
		}
	})
}
