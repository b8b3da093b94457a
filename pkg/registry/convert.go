package registry

import (
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/oyaguma3/captive-portal-access/pkg/model"
)

// recordHash はDeviceRecordのValkey HASH表現。
// 時刻はUnixミリ秒、未設定の時刻は0で保持する。
type recordHash struct {
	ID         string `redis:"id"`
	MAC        string `redis:"mac"`
	IP         string `redis:"ip"`
	Owner      string `redis:"owner"`
	ApprovedBy string `redis:"approved_by"`
	Kind       string `redis:"kind"`
	Sharing    string `redis:"sharing"`
	Status     string `redis:"status"`
	ExpiresAt  int64  `redis:"expires_at"`
	CreatedAt  int64  `redis:"created_at"`
	ExpiredAt  int64  `redis:"expired_at"`
	RevokedAt  int64  `redis:"revoked_at"`
	Name       string `redis:"meta_name"`
	DeviceType string `redis:"meta_type"`
	OS         string `redis:"meta_os"`
	Vendor     string `redis:"meta_vendor"`
	Location   string `redis:"meta_location"`
	Notes      string `redis:"meta_notes"`
	HasMeta    bool   `redis:"has_meta"`
}

func toHash(r *model.DeviceRecord) *recordHash {
	h := &recordHash{
		ID:         r.ID,
		MAC:        r.MAC,
		IP:         r.IP,
		Owner:      r.Owner,
		ApprovedBy: r.ApprovedBy,
		Kind:       string(r.Kind),
		Sharing:    string(r.Sharing),
		Status:     string(r.Status),
		ExpiresAt:  r.ExpiresAt.UnixMilli(),
		CreatedAt:  r.CreatedAt.UnixMilli(),
		ExpiredAt:  unixMilliOrZero(r.ExpiredAt),
		RevokedAt:  unixMilliOrZero(r.RevokedAt),
	}
	if m := r.Metadata; m != nil {
		h.HasMeta = true
		h.Name = m.Name
		h.DeviceType = string(m.DeviceType)
		h.OS = m.OS
		h.Vendor = m.Vendor
		h.Location = m.Location
		h.Notes = m.Notes
	}
	return h
}

func (h *recordHash) toRecord() *model.DeviceRecord {
	r := &model.DeviceRecord{
		ID:         h.ID,
		MAC:        h.MAC,
		IP:         h.IP,
		Owner:      h.Owner,
		ApprovedBy: h.ApprovedBy,
		Kind:       model.Kind(h.Kind),
		Sharing:    model.Sharing(h.Sharing),
		Status:     model.Status(h.Status),
		ExpiresAt:  time.UnixMilli(h.ExpiresAt).UTC(),
		CreatedAt:  time.UnixMilli(h.CreatedAt).UTC(),
		ExpiredAt:  timeOrNil(h.ExpiredAt),
		RevokedAt:  timeOrNil(h.RevokedAt),
	}
	if h.HasMeta {
		r.Metadata = &model.DeviceMetadata{
			Name:       h.Name,
			DeviceType: model.DeviceType(h.DeviceType),
			OS:         h.OS,
			Vendor:     h.Vendor,
			Location:   h.Location,
			Notes:      h.Notes,
		}
	}
	return r
}

func unixMilliOrZero(t *time.Time) int64 {
	if t == nil {
		return 0
	}
	return t.UnixMilli()
}

func timeOrNil(ms int64) *time.Time {
	if ms == 0 {
		return nil
	}
	t := time.UnixMilli(ms).UTC()
	return &t
}

// StructToArgs はredisタグ付き構造体をHSET用のfield/value引数列に変換する。
// redis:"-"タグおよびタグなしフィールドはスキップする。
func StructToArgs(v any) []any {
	val := reflect.ValueOf(v)
	if val.Kind() == reflect.Pointer {
		val = val.Elem()
	}
	typ := val.Type()

	args := make([]any, 0, val.NumField()*2)
	for i := 0; i < val.NumField(); i++ {
		tag := typ.Field(i).Tag.Get("redis")
		if tag == "" || tag == "-" {
			continue
		}
		f := val.Field(i)
		// Luaスクリプトへ渡すため全て文字列化する
		var s string
		switch f.Kind() {
		case reflect.String:
			s = f.String()
		case reflect.Int, reflect.Int64:
			s = strconv.FormatInt(f.Int(), 10)
		case reflect.Bool:
			s = strconv.FormatBool(f.Bool())
		default:
			s = fmt.Sprint(f.Interface())
		}
		args = append(args, tag, s)
	}
	return args
}
