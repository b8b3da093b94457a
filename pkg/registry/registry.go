// Package registry はデバイス承認レコードのValkey永続化を提供する。
//
// 一意性（同一(MAC, IP)に対するActiveレコードは高々1件）と状態遷移の
// compare-and-setはLuaスクリプトで原子的に実行する。
package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/oyaguma3/captive-portal-access/pkg/apperr"
	"github.com/oyaguma3/captive-portal-access/pkg/model"
	"github.com/oyaguma3/captive-portal-access/pkg/valkey"
)

// Store はRegistryのValkey実装。
type Store struct {
	client  redis.UniversalClient
	channel string
	now     func() time.Time
}

// Option はStoreの設定を変更する。
type Option func(*Store)

// WithEventChannel はイベント配信チャネル名を変更する。
func WithEventChannel(channel string) Option {
	return func(s *Store) {
		s.channel = channel
	}
}

// WithClock は遷移時刻に使用する時計を差し替える。
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New は新しいStoreを生成する。
func New(client redis.UniversalClient, opts ...Option) *Store {
	s := &Store{
		client:  client,
		channel: DefaultEventChannel,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Channel はイベント配信チャネル名を返す。
func (s *Store) Channel() string {
	return s.channel
}

// Put はレコードを作成または置換する。
// IDが空の場合は新規UUIDを採番してrecordに設定する。
func (s *Store) Put(ctx context.Context, record *model.DeviceRecord) error {
	if record == nil {
		return apperr.ErrInvalidRequest
	}
	if !record.Status.Valid() {
		return apperr.NewValidationError("status", fmt.Sprintf("unknown status %q", record.Status))
	}
	if !record.ExpiresAt.After(record.CreatedAt) {
		return apperr.NewValidationErrorWithCause("expiry", "must be after created_at", apperr.ErrInvalidExpiry)
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}

	key := record.Key()
	ev, err := encodeEvent(&Event{
		Type:     EventPut,
		RecordID: record.ID,
		MAC:      record.MAC,
		IP:       record.IP,
		Owner:    record.Owner,
		To:       record.Status,
		At:       record.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	h := toHash(record)
	keys := []string{
		recordKey(record.ID),
		activeIndexKey(key),
		historyKey(key),
		ownerKey(record.Owner),
		KeyAllIndex,
		KeyActiveSet,
	}
	args := []any{record.ID, h.Status, h.CreatedAt, h.ExpiresAt, s.channel, ev}
	args = append(args, StructToArgs(h)...)

	res, err := putScript.Run(ctx, s.client, keys, args...).Slice()
	if err != nil {
		slog.Error("registry put failed",
			"event_id", "VALKEY_CMD_ERR",
			"record_id", record.ID,
			"error", err,
		)
		return valkey.WrapError("PUT", recordKey(record.ID), err)
	}
	if len(res) != 2 {
		return valkey.WrapError("PUT", recordKey(record.ID), fmt.Errorf("unexpected script result %v", res))
	}
	if ok, _ := res[0].(int64); ok == 0 {
		return fmt.Errorf("%w: key=%s existing=%v", apperr.ErrConflict, key, res[1])
	}
	return nil
}

// Get はキーに対応する最新のレコードを返す。
// Activeレコードが存在すればそれを、なければ履歴の最新を返す。
func (s *Store) Get(ctx context.Context, key model.DeviceKey) (*model.DeviceRecord, error) {
	id, err := s.client.Get(ctx, activeIndexKey(key)).Result()
	switch {
	case err == nil:
		rec, err := s.GetByID(ctx, id)
		if err == nil {
			return rec, nil
		}
		if !errors.Is(err, apperr.ErrRecordNotFound) {
			return nil, err
		}
	case !valkey.IsKeyNotFound(err):
		return nil, valkey.WrapError("GET", activeIndexKey(key), err)
	}

	ids, err := s.client.ZRevRange(ctx, historyKey(key), 0, 0).Result()
	if err != nil {
		return nil, valkey.WrapError("ZREVRANGE", historyKey(key), err)
	}
	if len(ids) == 0 {
		return nil, apperr.ErrRecordNotFound
	}
	return s.GetByID(ctx, ids[0])
}

// GetByID はidでレコードを取得する。
func (s *Store) GetByID(ctx context.Context, id string) (*model.DeviceRecord, error) {
	cmd := s.client.HGetAll(ctx, recordKey(id))
	m, err := cmd.Result()
	if err != nil {
		return nil, valkey.WrapError("HGETALL", recordKey(id), err)
	}
	if len(m) == 0 {
		return nil, apperr.ErrRecordNotFound
	}
	var h recordHash
	if err := cmd.Scan(&h); err != nil {
		return nil, fmt.Errorf("decode record %s: %w", id, err)
	}
	return h.toRecord(), nil
}

// ListByOwner は所有者のレコードを作成時刻の昇順で返す。
func (s *Store) ListByOwner(ctx context.Context, owner string) ([]*model.DeviceRecord, error) {
	return s.listIndex(ctx, ownerKey(owner))
}

// ListAll はフィルタ条件に合うレコードを返す。
func (s *Store) ListAll(ctx context.Context, filter Filter) ([]*model.DeviceRecord, error) {
	if filter == FilterActive {
		return s.listIndex(ctx, KeyActiveSet)
	}
	return s.listIndex(ctx, KeyAllIndex)
}

// TransitionStatus は状態のcompare-and-setを行う。
// 許可されていない遷移はErrInvalidTransition、レコードが存在しない場合はErrRecordNotFoundを返す。
func (s *Store) TransitionStatus(ctx context.Context, id string, from, to model.Status) (bool, error) {
	if !from.CanTransitionTo(to) {
		return false, fmt.Errorf("%w: %s -> %s", apperr.ErrInvalidTransition, from, to)
	}

	// キーを構成する(MAC, IP)は作成後変更されないため、スクリプト外で取得してよい
	vals, err := s.client.HMGet(ctx, recordKey(id), "mac", "ip", "owner").Result()
	if err != nil {
		return false, valkey.WrapError("HMGET", recordKey(id), err)
	}
	mac, _ := vals[0].(string)
	ip, _ := vals[1].(string)
	owner, _ := vals[2].(string)
	if mac == "" && ip == "" {
		return false, apperr.ErrRecordNotFound
	}
	key := model.DeviceKey{MAC: mac, IP: ip}

	at := s.now().UTC()
	field := "expired_at"
	if to == model.StatusRevoked {
		field = "revoked_at"
	}
	ev, err := encodeEvent(&Event{
		Type:     EventTransition,
		RecordID: id,
		MAC:      mac,
		IP:       ip,
		Owner:    owner,
		From:     from,
		To:       to,
		At:       at,
	})
	if err != nil {
		return false, fmt.Errorf("encode event: %w", err)
	}

	keys := []string{recordKey(id), activeIndexKey(key), KeyActiveSet}
	n, err := transitionScript.Run(ctx, s.client, keys,
		id, string(from), string(to), field, at.UnixMilli(), s.channel, ev,
	).Int()
	if err != nil {
		slog.Error("registry transition failed",
			"event_id", "VALKEY_CMD_ERR",
			"record_id", id,
			"error", err,
		)
		return false, valkey.WrapError("TRANSITION", recordKey(id), err)
	}
	return n == 1, nil
}

// listIndex はZSETインデックスのid順にレコードを取得する。
func (s *Store) listIndex(ctx context.Context, index string) ([]*model.DeviceRecord, error) {
	ids, err := s.client.ZRange(ctx, index, 0, -1).Result()
	if err != nil {
		return nil, valkey.WrapError("ZRANGE", index, err)
	}
	return s.fetch(ctx, ids)
}

// fetch はパイプラインで複数レコードを取得する。
// インデックスに残っていても本体が存在しないidは読み飛ばす。
func (s *Store) fetch(ctx context.Context, ids []string) ([]*model.DeviceRecord, error) {
	if len(ids) == 0 {
		return []*model.DeviceRecord{}, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGetAll(ctx, recordKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, valkey.WrapError("HGETALL", KeyPrefixRecord+"*", err)
	}

	records := make([]*model.DeviceRecord, 0, len(ids))
	for i, cmd := range cmds {
		if len(cmd.Val()) == 0 {
			continue
		}
		var h recordHash
		if err := cmd.Scan(&h); err != nil {
			slog.Warn("skip undecodable record",
				"event_id", "RECORD_DECODE_ERR",
				"record_id", ids[i],
				"error", err,
			)
			continue
		}
		records = append(records, h.toRecord())
	}
	return records, nil
}

var _ Registry = (*Store)(nil)
