package store

import (
	"context"
	"sync"
	"time"

	"github.com/oyaguma3/captive-portal-access/pkg/model"
)

// Statistics は統計情報を表す。
type Statistics struct {
	Total     int64                   `json:"total"`
	Live      int64                   `json:"live"` // Activeかつ有効期限内
	ByStatus  map[model.Status]int64  `json:"by_status"`
	BySharing map[model.Sharing]int64 `json:"by_sharing"`
	ByKind    map[model.Kind]int64    `json:"by_kind"`
	UpdatedAt int64                   `json:"updated_at"`
}

// DeviceLister はデバイス一覧を取得するインターフェース
type DeviceLister interface {
	List(ctx context.Context, activeOnly bool, order SortOrder) ([]*model.DeviceRecord, error)
}

// StatisticsStore は統計情報へのアクセスを提供する。
type StatisticsStore struct {
	devices DeviceLister
	now     func() time.Time

	mu       sync.RWMutex
	cache    *Statistics
	cacheTTL time.Duration
}

// NewStatisticsStore は新しいStatisticsStoreを生成する。
func NewStatisticsStore(devices DeviceLister) *StatisticsStore {
	return &StatisticsStore{
		devices:  devices,
		now:      time.Now,
		cacheTTL: 1 * time.Minute,
	}
}

// Get は統計情報を取得する（1分キャッシュ）。
func (s *StatisticsStore) Get(ctx context.Context) (*Statistics, error) {
	s.mu.RLock()
	if s.cache != nil && s.now().Unix()-s.cache.UpdatedAt < int64(s.cacheTTL.Seconds()) {
		cached := *s.cache
		s.mu.RUnlock()
		return &cached, nil
	}
	s.mu.RUnlock()

	return s.Refresh(ctx)
}

// Refresh はキャッシュを更新して最新の統計情報を取得する。
func (s *StatisticsStore) Refresh(ctx context.Context) (*Statistics, error) {
	records, err := s.devices.List(ctx, false, SortByCreated)
	if err != nil {
		return nil, err
	}

	stats := Summarize(records, s.now())

	s.mu.Lock()
	s.cache = stats
	s.mu.Unlock()

	return stats, nil
}

// ClearCache はキャッシュをクリアする。
func (s *StatisticsStore) ClearCache() {
	s.mu.Lock()
	s.cache = nil
	s.mu.Unlock()
}

// Summarize はレコード一覧から統計情報を集計する。
func Summarize(records []*model.DeviceRecord, now time.Time) *Statistics {
	stats := &Statistics{
		ByStatus:  make(map[model.Status]int64),
		BySharing: make(map[model.Sharing]int64),
		ByKind:    make(map[model.Kind]int64),
		UpdatedAt: now.Unix(),
	}
	for _, rec := range records {
		stats.Total++
		stats.ByStatus[rec.Status]++
		stats.BySharing[rec.Sharing]++
		stats.ByKind[rec.Kind]++
		if rec.IsAuthorizedAt(now) {
			stats.Live++
		}
	}
	return stats
}
