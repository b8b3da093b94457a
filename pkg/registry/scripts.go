package registry

import "github.com/redis/go-redis/v9"

// putScript はレコードを一意性チェック付きで書き込む。
//
// KEYS: 1=dev:{id} 2=dev:active:{key} 3=dev:hist:{key} 4=所有者インデックス 5=dev:all 6=dev:active
// ARGV: 1=id 2=status 3=created_at(ms) 4=expires_at(ms) 5=channel 6=event 7..=field/value
//
// 戻り値: {1, id} 書き込み成功 / {0, 既存Activeのid} 競合
var putScript = redis.NewScript(`
local cur = redis.call('GET', KEYS[2])
if ARGV[2] == 'active' and cur and cur ~= ARGV[1] then
  return {0, cur}
end
redis.call('DEL', KEYS[1])
redis.call('HSET', KEYS[1], unpack(ARGV, 7))
redis.call('ZADD', KEYS[3], ARGV[3], ARGV[1])
redis.call('ZADD', KEYS[4], ARGV[3], ARGV[1])
redis.call('ZADD', KEYS[5], ARGV[3], ARGV[1])
if ARGV[2] == 'active' then
  redis.call('SET', KEYS[2], ARGV[1])
  redis.call('ZADD', KEYS[6], ARGV[4], ARGV[1])
else
  if cur == ARGV[1] then
    redis.call('DEL', KEYS[2])
  end
  redis.call('ZREM', KEYS[6], ARGV[1])
end
redis.call('PUBLISH', ARGV[5], ARGV[6])
return {1, ARGV[1]}
`)

// transitionScript は状態のcompare-and-setを行う。
//
// KEYS: 1=dev:{id} 2=dev:active:{key} 3=dev:active
// ARGV: 1=id 2=from 3=to 4=時刻フィールド名 5=時刻(ms) 6=channel 7=event
//
// 戻り値: 1 遷移成功 / 0 現在の状態がfromと一致しない
var transitionScript = redis.NewScript(`
local st = redis.call('HGET', KEYS[1], 'status')
if st ~= ARGV[2] then
  return 0
end
redis.call('HSET', KEYS[1], 'status', ARGV[3], ARGV[4], ARGV[5])
if ARGV[2] == 'active' then
  if redis.call('GET', KEYS[2]) == ARGV[1] then
    redis.call('DEL', KEYS[2])
  end
  redis.call('ZREM', KEYS[3], ARGV[1])
end
redis.call('PUBLISH', ARGV[6], ARGV[7])
return 1
`)
