package registry

import (
	"context"

	"github.com/oyaguma3/captive-portal-access/pkg/model"
)

// Filter はListAllの絞り込み条件。
type Filter int

const (
	// FilterActive はActiveレコードのみ（有効期限の昇順）
	FilterActive Filter = iota
	// FilterAll は全レコード（作成時刻の昇順）
	FilterAll
)

// Registry はデバイス承認レコードの永続化と一意性制約を定義する。
type Registry interface {
	// Put はレコードを作成または置換する。
	// 同一キーに別idのActiveレコードが存在し、recordもActiveの場合はErrConflictを返す。
	Put(ctx context.Context, record *model.DeviceRecord) error
	// Get はキーに対応する最新のレコードを返す（Activeを優先）。
	// 該当なしの場合はErrRecordNotFoundを返す。
	Get(ctx context.Context, key model.DeviceKey) (*model.DeviceRecord, error)
	// GetByID はidでレコードを取得する。
	GetByID(ctx context.Context, id string) (*model.DeviceRecord, error)
	// ListByOwner は所有者のレコードを作成時刻の昇順で返す。
	// ownerが空の場合は所有者なし（共有）レコードを返す。
	ListByOwner(ctx context.Context, owner string) ([]*model.DeviceRecord, error)
	// ListAll はフィルタ条件に合うレコードを返す。
	ListAll(ctx context.Context, filter Filter) ([]*model.DeviceRecord, error)
	// TransitionStatus は状態のcompare-and-setを行う。
	// 現在の状態がfromと一致しない場合はfalseを返す（エラーではない）。
	TransitionStatus(ctx context.Context, id string, from, to model.Status) (bool, error)
}
