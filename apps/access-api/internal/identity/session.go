package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/oyaguma3/captive-portal-access/pkg/apperr"
	"github.com/oyaguma3/captive-portal-access/pkg/model"
	"github.com/oyaguma3/captive-portal-access/pkg/valkey"
)

// KeyPrefixSession はポータルセッションのキープレフィックス
const KeyPrefixSession = "psess:"

// SessionStore はポータルセッション（トークン→Principal）をValkeyに保持する。
type SessionStore struct {
	client redis.UniversalClient
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionStore は新しいSessionStoreを生成する。
func NewSessionStore(client redis.UniversalClient, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client: client,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Create はPrincipalのセッションを作成し、トークンを返す。
func (s *SessionStore) Create(ctx context.Context, p *model.Principal) (string, error) {
	if p == nil || p.ID == "" {
		return "", apperr.ErrNotAuthenticated
	}
	token := uuid.New().String()
	key := KeyPrefixSession + token

	h := &sessionHash{
		ID:         p.ID,
		Name:       p.Name,
		Email:      p.Email,
		Role:       p.Role,
		Department: p.Department,
		CreatedAt:  s.now().Unix(),
	}

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, h)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", valkey.WrapError("HSET", KeyPrefixSession+"*", err)
	}
	return token, nil
}

// Get はトークンに対応するPrincipalを返す。
// 該当なしの場合はErrSessionNotFoundを返す。
func (s *SessionStore) Get(ctx context.Context, token string) (*model.Principal, error) {
	if token == "" {
		return nil, apperr.ErrSessionNotFound
	}
	cmd := s.client.HGetAll(ctx, KeyPrefixSession+token)
	m, err := cmd.Result()
	if err != nil {
		return nil, valkey.WrapError("HGETALL", KeyPrefixSession+"*", err)
	}
	if len(m) == 0 {
		return nil, apperr.ErrSessionNotFound
	}

	var h sessionHash
	if err := cmd.Scan(&h); err != nil {
		return nil, fmt.Errorf("session deserialization error: %w", err)
	}
	return model.NewPrincipal(h.ID, h.Name, h.Email, h.Role, h.Department), nil
}

// Delete はセッションを削除する。存在しない場合も成功とする。
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.client.Del(ctx, KeyPrefixSession+token).Err(); err != nil {
		return valkey.WrapError("DEL", KeyPrefixSession+"*", err)
	}
	return nil
}
