package enforce

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oyaguma3/captive-portal-access/apps/access-api/internal/config"
	"github.com/oyaguma3/captive-portal-access/pkg/logging"
	"github.com/oyaguma3/captive-portal-access/pkg/registry"
)

// Subscriber はレジストリのイベントチャネルを購読し、
// Expired/Revokedへの遷移をEnforcerへ渡す。
type Subscriber struct {
	client   redis.UniversalClient
	channel  string
	enforcer Enforcer
	timeout  time.Duration
	fields   *logging.CommonFields

	minRetryDelay time.Duration
	maxRetryDelay time.Duration

	readyOnce sync.Once
	ready     chan struct{}
}

// SubscriberOption はSubscriberの設定を変更する。
type SubscriberOption func(*Subscriber)

// WithRetryDelay は購読失敗時の再試行間隔の初期値と上限を変更する。
func WithRetryDelay(minDelay, maxDelay time.Duration) SubscriberOption {
	return func(s *Subscriber) {
		s.minRetryDelay = minDelay
		s.maxRetryDelay = maxDelay
	}
}

// NewSubscriber は新しいSubscriberを生成する。
func NewSubscriber(client redis.UniversalClient, channel string, enforcer Enforcer, timeout time.Duration, fields *logging.CommonFields, opts ...SubscriberOption) *Subscriber {
	if fields == nil {
		fields = logging.NewCommonFields(nil)
	}
	s := &Subscriber{
		client:        client,
		channel:       channel,
		enforcer:      enforcer,
		timeout:       timeout,
		fields:        fields,
		minRetryDelay: config.SubscribeMinRetryDelay,
		maxRetryDelay: config.SubscribeMaxRetryDelay,
		ready:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ready は最初の購読確立後にcloseされるチャネルを返す。
func (s *Subscriber) Ready() <-chan struct{} {
	return s.ready
}

// Run はctxがキャンセルされるまでイベントを処理する。
// 購読の確立に失敗した場合や購読が切れた場合は、指数バックオフで再購読する。
func (s *Subscriber) Run(ctx context.Context) error {
	delay := s.minRetryDelay
	for {
		established, err := s.subscribe(ctx)
		if ctx.Err() != nil {
			slog.Info("enforcement subscriber stopped")
			return nil
		}
		if established {
			delay = s.minRetryDelay
		}
		slog.Warn("enforcement subscription failed, retrying",
			logging.WithEventID("ENFORCE_SUBSCRIBE_ERR"),
			"channel", s.channel,
			"retry_in", delay.String(),
			logging.WithError(err),
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			slog.Info("enforcement subscriber stopped")
			return nil
		case <-timer.C:
		}
		delay = min(delay*2, s.maxRetryDelay)
	}
}

// errSubscriptionClosed は購読チャネルが閉じられたことを表す。
var errSubscriptionClosed = errors.New("subscription channel closed")

// subscribe は1回分の購読を行い、ctxの終了か購読の失敗まで戻らない。
// establishedは購読確立まで到達したかどうか。
func (s *Subscriber) subscribe(ctx context.Context) (established bool, err error) {
	pubsub := s.client.Subscribe(ctx, s.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return false, err
	}
	s.readyOnce.Do(func() { close(s.ready) })
	slog.Info("enforcement subscriber started", "channel", s.channel)

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return true, ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return true, errSubscriptionClosed
			}
			s.Handle(ctx, msg.Payload)
		}
	}
}

// Handle は1件のイベントペイロードを処理する。
// 切断の失敗はログ出力のみで呼び出し元へは返さない。
func (s *Subscriber) Handle(ctx context.Context, payload string) {
	ev, err := registry.DecodeEvent(payload)
	if err != nil {
		slog.Warn("invalid registry event",
			logging.WithEventID("ENFORCE_DECODE_ERR"),
			logging.WithError(err),
		)
		return
	}
	if ev.Type != registry.EventTransition || !ev.To.IsTerminal() {
		return
	}

	dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	if err := s.enforcer.Disconnect(dctx, ev); err != nil {
		slog.Warn("enforcement failed",
			append(s.fields.DeviceLogFields("ENFORCE_ERR", ev.MAC, ev.IP),
				logging.WithRecordID(ev.RecordID),
				logging.WithStatus(string(ev.To)),
				logging.WithError(err),
			)...)
		return
	}
	slog.Info("enforcement applied",
		append(s.fields.DeviceLogFields("ENFORCE_OK", ev.MAC, ev.IP),
			logging.WithRecordID(ev.RecordID),
			logging.WithStatus(string(ev.To)),
		)...)
}
