// Package store はAdmin TUIのValkeyアクセス層を提供する。
// デバイスレコードの読み書きはすべてレジストリ経由で行い、キー構造を直接扱わない。
package store

import (
	"context"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oyaguma3/captive-portal-access/pkg/model"
	"github.com/oyaguma3/captive-portal-access/pkg/registry"
)

// SortOrder は一覧の並び順を表す。
type SortOrder int

const (
	// SortByCreated は作成時刻の新しい順
	SortByCreated SortOrder = iota
	// SortByExpiry は有効期限の近い順
	SortByExpiry
)

// String は表示用の名前を返す。
func (o SortOrder) String() string {
	if o == SortByExpiry {
		return "expiry"
	}
	return "created"
}

// DeviceStore はデバイスレコードへのアクセスを提供する。
type DeviceStore struct {
	client   *redis.Client
	registry *registry.Store
	now      func() time.Time
}

// NewDeviceStore は新しいDeviceStoreを生成する。
func NewDeviceStore(client *redis.Client) *DeviceStore {
	return &DeviceStore{
		client:   client,
		registry: registry.New(client),
		now:      time.Now,
	}
}

// Close は接続をクローズする。
func (s *DeviceStore) Close() error {
	return s.client.Close()
}

// List はデバイスレコードを指定順で返す。
// activeOnly の場合は有効期限内のActiveレコードのみを返す。
func (s *DeviceStore) List(ctx context.Context, activeOnly bool, order SortOrder) ([]*model.DeviceRecord, error) {
	filter := registry.FilterAll
	if activeOnly {
		filter = registry.FilterActive
	}
	records, err := s.registry.ListAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	if activeOnly {
		now := s.now()
		live := records[:0]
		for _, rec := range records {
			if rec.IsAuthorizedAt(now) {
				live = append(live, rec)
			}
		}
		records = live
	}

	SortRecords(records, order)
	return records, nil
}

// Get はIDでレコードを取得する。
func (s *DeviceStore) Get(ctx context.Context, id string) (*model.DeviceRecord, error) {
	return s.registry.GetByID(ctx, id)
}

// Revoke はActiveレコードをRevokedに遷移させる。
// 既に終端状態の場合はfalseを返す。
func (s *DeviceStore) Revoke(ctx context.Context, id string) (bool, error) {
	return s.registry.TransitionStatus(ctx, id, model.StatusActive, model.StatusRevoked)
}

// SortRecords はレコードを指定順に並べ替える。
func SortRecords(records []*model.DeviceRecord, order SortOrder) {
	sort.SliceStable(records, func(i, j int) bool {
		switch order {
		case SortByExpiry:
			return records[i].ExpiresAt.Before(records[j].ExpiresAt)
		default:
			return records[i].CreatedAt.After(records[j].CreatedAt)
		}
	})
}
