package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/oyaguma3/captive-portal-access/pkg/apperr"
	"github.com/oyaguma3/captive-portal-access/pkg/model"
)

func setupSessionStore(t *testing.T) (*SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewSessionStore(client, time.Hour), mr
}

func TestSessionStore_CreateGetDelete(t *testing.T) {
	s, mr := setupSessionStore(t)
	ctx := context.Background()
	p := model.NewPrincipal("u-1", "User One", "one@example.com", "user", "Sales")

	token, err := s.Create(ctx, p)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if len(token) != 36 {
		t.Errorf("token = %q, want uuid", token)
	}

	// TTLが設定されていること
	if ttl := mr.TTL(KeyPrefixSession + token); ttl != time.Hour {
		t.Errorf("TTL = %v, want %v", ttl, time.Hour)
	}

	got, err := s.Get(ctx, token)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if *got != *p {
		t.Errorf("Get() = %+v, want %+v", got, p)
	}

	if err := s.Delete(ctx, token); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Get(ctx, token); !errors.Is(err, apperr.ErrSessionNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrSessionNotFound", err)
	}

	// 2回目の削除もエラーにならない
	if err := s.Delete(ctx, token); err != nil {
		t.Errorf("Delete() second call error = %v", err)
	}
}

func TestSessionStore_Expired(t *testing.T) {
	s, mr := setupSessionStore(t)
	ctx := context.Background()

	token, err := s.Create(ctx, model.NewPrincipal("u-1", "", "", "", ""))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	mr.FastForward(time.Hour + time.Second)

	if _, err := s.Get(ctx, token); !errors.Is(err, apperr.ErrSessionNotFound) {
		t.Errorf("Get() error = %v, want ErrSessionNotFound", err)
	}
}

func TestSessionStore_Errors(t *testing.T) {
	s, mr := setupSessionStore(t)
	ctx := context.Background()

	if _, err := s.Create(ctx, nil); !errors.Is(err, apperr.ErrNotAuthenticated) {
		t.Errorf("Create(nil) error = %v", err)
	}
	if _, err := s.Get(ctx, ""); !errors.Is(err, apperr.ErrSessionNotFound) {
		t.Errorf("Get(\"\") error = %v", err)
	}

	mr.Close()
	_, err := s.Get(ctx, "00000000-0000-0000-0000-000000000000")
	var se *apperr.StorageError
	if !errors.As(err, &se) {
		t.Errorf("Get() error = %v, want StorageError", err)
	}
}
