package registry

import (
	"encoding/json"
	"time"

	"github.com/oyaguma3/captive-portal-access/pkg/model"
)

// EventType はレコード変更イベントの種別。
type EventType string

const (
	// EventPut はレコードの作成・置換
	EventPut EventType = "put"
	// EventTransition は状態遷移
	EventTransition EventType = "transition"
)

// Event はレジストリが変更成功時にPub/Subへ配信するイベント。
// 書き込みと同一のLuaスクリプト内でPUBLISHされる。
type Event struct {
	Type     EventType    `json:"type"`
	RecordID string       `json:"record_id"`
	MAC      string       `json:"mac"`
	IP       string       `json:"ip"`
	Owner    string       `json:"owner,omitempty"`
	From     model.Status `json:"from,omitempty"`
	To       model.Status `json:"to"`
	At       time.Time    `json:"at"`
}

// Key はイベント対象のデバイスキーを返す。
func (e *Event) Key() model.DeviceKey {
	return model.DeviceKey{MAC: e.MAC, IP: e.IP}
}

// DecodeEvent はPub/Subメッセージのペイロードをデコードする。
func DecodeEvent(payload string) (*Event, error) {
	var ev Event
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

func encodeEvent(ev *Event) (string, error) {
	b, err := json.Marshal(ev)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
