package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/cisboard/pkg/domain/types"
	"github.com/secmon-lab/cisboard/pkg/repository/memory"
	"github.com/secmon-lab/cisboard/pkg/usecase"
)

var testSecret = []byte(strings.Repeat("s", usecase.MinSessionSecretLength))

func TestNewAuthUseCase(t *testing.T) {
	_, err := usecase.NewAuthUseCase(memory.New(), []byte("short"))
	gt.Value(t, err).NotNil()

	uc, err := usecase.NewAuthUseCase(memory.New(), testSecret, usecase.WithSessionTTL(time.Hour))
	gt.NoError(t, err).Required()
	gt.Value(t, uc.SessionTTL()).Equal(time.Hour)
	gt.Bool(t, uc.IsNoAuthn()).False()
}

func TestAuthUseCase_LoginAndValidate(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	ucs := usecase.New(repo)
	admin := newUser(t, ucs, "Admin@Example.com", types.UserRolePlatformAdmin, "")

	now := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	auth, err := usecase.NewAuthUseCase(repo, testSecret, usecase.WithClock(func() time.Time { return now }))
	gt.NoError(t, err).Required()

	u, token, err := auth.Login(ctx, " admin@example.com ", "correct horse battery")
	gt.NoError(t, err).Required()
	gt.Value(t, u.ID).Equal(admin.ID)
	gt.Value(t, token).NotEqual("")

	t.Run("valid token", func(t *testing.T) {
		got, err := auth.ValidateToken(ctx, token)
		gt.NoError(t, err).Required()
		gt.Value(t, got.ID).Equal(admin.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := auth.Login(ctx, "admin@example.com", "wrong password")
		gt.Bool(t, errors.Is(err, usecase.ErrInvalidCredentials)).True()
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := auth.Login(ctx, "ghost@example.com", "correct horse battery")
		gt.Bool(t, errors.Is(err, usecase.ErrInvalidCredentials)).True()
	})

	t.Run("tampered token", func(t *testing.T) {
		_, err := auth.ValidateToken(ctx, token+"x")
		gt.Bool(t, errors.Is(err, usecase.ErrInvalidToken)).True()
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		other, err := usecase.NewAuthUseCase(repo, []byte(strings.Repeat("o", 32)), usecase.WithClock(func() time.Time { return now }))
		gt.NoError(t, err).Required()
		_, err = other.ValidateToken(ctx, token)
		gt.Bool(t, errors.Is(err, usecase.ErrInvalidToken)).True()
	})

	t.Run("expired token", func(t *testing.T) {
		later, err := usecase.NewAuthUseCase(repo, testSecret, usecase.WithClock(func() time.Time {
			return now.Add(usecase.DefaultSessionTTL + time.Minute)
		}))
		gt.NoError(t, err).Required()
		_, err = later.ValidateToken(ctx, token)
		gt.Bool(t, errors.Is(err, usecase.ErrInvalidToken)).True()
	})

	t.Run("deleted user", func(t *testing.T) {
		member := newUser(t, ucs, "member@example.com", types.UserRolePlatformAdmin, "")
		fresh, err := usecase.NewAuthUseCase(repo, testSecret, usecase.WithClock(func() time.Time { return now }))
		gt.NoError(t, err).Required()
		_, memberToken, err := fresh.Login(ctx, "member@example.com", "correct horse battery")
		gt.NoError(t, err).Required()

		gt.NoError(t, ucs.User.DeleteUser(ctx, member.ID)).Required()

		// a separate instance has no cached user
		other, err := usecase.NewAuthUseCase(repo, testSecret, usecase.WithClock(func() time.Time { return now }))
		gt.NoError(t, err).Required()
		_, err = other.ValidateToken(ctx, memberToken)
		gt.Bool(t, errors.Is(err, usecase.ErrInvalidToken)).True()
	})
}

func TestPassword(t *testing.T) {
	hash, err := usecase.HashPassword("correct horse battery")
	gt.NoError(t, err).Required()
	gt.Bool(t, strings.HasPrefix(hash, "$argon2id$v=19$m=65536,t=1,p=4$")).True()

	ok, err := usecase.VerifyPassword(hash, "correct horse battery")
	gt.NoError(t, err).Required()
	gt.Bool(t, ok).True()

	ok, err = usecase.VerifyPassword(hash, "incorrect horse")
	gt.NoError(t, err).Required()
	gt.Bool(t, ok).False()

	other, err := usecase.HashPassword("correct horse battery")
	gt.NoError(t, err).Required()
	gt.Value(t, other).NotEqual(hash)

	_, err = usecase.HashPassword("short")
	gt.Bool(t, errors.Is(err, usecase.ErrWeakPassword)).True()

	_, err = usecase.VerifyPassword("$2a$10$bcrypt", "x")
	gt.Value(t, err).NotNil()
}
