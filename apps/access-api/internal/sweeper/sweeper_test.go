package sweeper

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/mock/gomock"

	"github.com/oyaguma3/captive-portal-access/pkg/apperr"
	"github.com/oyaguma3/captive-portal-access/pkg/model"
	"github.com/oyaguma3/captive-portal-access/pkg/registry"
)

var t0 = time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

func record(id, ip string, expiresAt time.Time) *model.DeviceRecord {
	return &model.DeviceRecord{
		ID:        id,
		MAC:       "AA:BB:CC:DD:EE:FF",
		IP:        ip,
		Owner:     "u-1",
		Kind:      model.KindNetworkDetected,
		Sharing:   model.SharingPersonal,
		Status:    model.StatusActive,
		CreatedAt: expiresAt.Add(-time.Hour),
		ExpiresAt: expiresAt,
	}
}

func TestRunOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	reg := NewMockRegistry(ctrl)

	records := []*model.DeviceRecord{
		record("r-expired", "10.0.0.1", t0.Add(-time.Minute)),
		record("r-boundary", "10.0.0.2", t0),
		record("r-lost", "10.0.0.3", t0.Add(-time.Second)),
		record("r-fail", "10.0.0.4", t0.Add(-time.Second)),
		record("r-valid", "10.0.0.5", t0.Add(time.Minute)),
	}

	reg.EXPECT().ListAll(gomock.Any(), registry.FilterActive).Return(records, nil)
	reg.EXPECT().TransitionStatus(gomock.Any(), "r-expired", model.StatusActive, model.StatusExpired).Return(true, nil)
	reg.EXPECT().TransitionStatus(gomock.Any(), "r-boundary", model.StatusActive, model.StatusExpired).Return(true, nil)
	reg.EXPECT().TransitionStatus(gomock.Any(), "r-lost", model.StatusActive, model.StatusExpired).Return(false, nil)
	reg.EXPECT().TransitionStatus(gomock.Any(), "r-fail", model.StatusActive, model.StatusExpired).
		Return(false, apperr.NewStorageError("TRANSITION", "dev:r-fail", apperr.ErrValkeyCommand))
	// r-valid は遷移しない

	s := New(reg, time.Minute, time.Second, WithNow(func() time.Time { return t0 }))
	res, err := s.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}

	want := Result{Scanned: 5, Expired: 2, Lost: 1, Failed: 1}
	if res != want {
		t.Errorf("RunOnce() = %+v, want %+v", res, want)
	}
}

func TestRunOnce_ListError(t *testing.T) {
	ctrl := gomock.NewController(t)
	reg := NewMockRegistry(ctrl)

	listErr := apperr.NewStorageError("ZRANGE", "dev:active", apperr.ErrValkeyConnection)
	reg.EXPECT().ListAll(gomock.Any(), registry.FilterActive).Return(nil, listErr)

	s := New(reg, time.Minute, time.Second)
	if _, err := s.RunOnce(context.Background()); !errors.Is(err, apperr.ErrValkeyConnection) {
		t.Errorf("RunOnce() error = %v, want ErrValkeyConnection", err)
	}
}

func TestRunOnce_SkipsNonActive(t *testing.T) {
	ctrl := gomock.NewController(t)
	reg := NewMockRegistry(ctrl)

	revoked := record("r-revoked", "10.0.0.1", t0.Add(-time.Hour))
	revoked.Status = model.StatusRevoked
	reg.EXPECT().ListAll(gomock.Any(), registry.FilterActive).Return([]*model.DeviceRecord{revoked}, nil)

	s := New(reg, time.Minute, time.Second, WithNow(func() time.Time { return t0 }))
	res, err := s.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if res.Expired != 0 {
		t.Errorf("Expired = %d, want 0", res.Expired)
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	reg := NewMockRegistry(ctrl)
	reg.EXPECT().ListAll(gomock.Any(), registry.FilterActive).Return(nil, nil).MinTimes(1)

	s := New(reg, 10*time.Millisecond, time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	time.Sleep(35 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}

// miniredis上のregistry.Storeを使ったテスト
func TestRunOnce_WithStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := registry.New(client, registry.WithClock(func() time.Time { return t0 }))
	ctx := context.Background()

	expired := record("", "10.0.0.1", t0.Add(-time.Minute))
	valid := record("", "10.0.0.2", t0.Add(time.Hour))
	for _, r := range []*model.DeviceRecord{expired, valid} {
		if err := store.Put(ctx, r); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
	}

	s := New(store, time.Minute, time.Second, WithNow(func() time.Time { return t0 }))
	res, err := s.RunOnce(ctx)
	if err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if res.Expired != 1 {
		t.Errorf("Expired = %d, want 1", res.Expired)
	}

	got, err := store.GetByID(ctx, expired.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Status != model.StatusExpired {
		t.Errorf("Status = %q, want %q", got.Status, model.StatusExpired)
	}

	active, err := store.ListAll(ctx, registry.FilterActive)
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if len(active) != 1 || active[0].ID != valid.ID {
		t.Errorf("active = %d records, want only %s", len(active), valid.ID)
	}

	// 2回目は何もしない
	res, err = s.RunOnce(ctx)
	if err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if res.Expired != 0 || res.Scanned != 1 {
		t.Errorf("second RunOnce() = %+v", res)
	}
}
