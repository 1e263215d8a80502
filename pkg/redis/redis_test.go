package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCmdable struct {
	data      map[string]string
	counters  map[string]int64
	expiries  map[string]time.Duration
	setNXHits map[string]bool
	pingErr   error
}

func newFakeCmdable() *fakeCmdable {
	return &fakeCmdable{
		data:      map[string]string{},
		counters:  map[string]int64{},
		expiries:  map[string]time.Duration{},
		setNXHits: map[string]bool{},
	}
}

func (f *fakeCmdable) Ping(ctx context.Context) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	if f.pingErr != nil {
		cmd.SetErr(f.pingErr)
		return cmd
	}
	cmd.SetVal("PONG")
	return cmd
}

func (f *fakeCmdable) Set(ctx context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	f.data[key] = value.(string)
	f.expiries[key] = ttl
	cmd := redis.NewStatusCmd(ctx)
	cmd.SetVal("OK")
	return cmd
}

func (f *fakeCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx)
	val, ok := f.data[key]
	if !ok {
		cmd.SetErr(redis.Nil)
		return cmd
	}
	cmd.SetVal(val)
	return cmd
}

func (f *fakeCmdable) SetNX(ctx context.Context, key string, value any, ttl time.Duration) *redis.BoolCmd {
	cmd := redis.NewBoolCmd(ctx)
	if _, exists := f.data[key]; exists {
		cmd.SetVal(false)
		return cmd
	}
	f.data[key] = value.(string)
	f.expiries[key] = ttl
	f.setNXHits[key] = true
	cmd.SetVal(true)
	return cmd
}

func (f *fakeCmdable) Incr(ctx context.Context, key string) *redis.IntCmd {
	f.counters[key]++
	cmd := redis.NewIntCmd(ctx)
	cmd.SetVal(f.counters[key])
	return cmd
}

func (f *fakeCmdable) Expire(ctx context.Context, key string, ttl time.Duration) *redis.BoolCmd {
	f.expiries[key] = ttl
	cmd := redis.NewBoolCmd(ctx)
	cmd.SetVal(true)
	return cmd
}

func (f *fakeCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var removed int64
	for _, key := range keys {
		if _, ok := f.data[key]; ok {
			delete(f.data, key)
			removed++
		}
		delete(f.counters, key)
	}
	cmd := redis.NewIntCmd(ctx)
	cmd.SetVal(removed)
	return cmd
}

func TestKeyHelpers(t *testing.T) {
	client := &Client{store: newFakeCmdable()}

	assert.Equal(t, "fo:placement_otp:ord-1", client.OTPKey("ord-1"))
	assert.Equal(t, "fo:otp_attempts:ord-1", client.OTPAttemptsKey("ord-1"))
	assert.Equal(t, "fo:otp_cooldown:ord-1", client.OTPCooldownKey("ord-1"))
	assert.Equal(t, "fo:rate_limit:verify:ord-1", client.RateLimitKey("verify:ord-1"))
}

func TestSetGetDel(t *testing.T) {
	ctx := context.Background()
	fake := newFakeCmdable()
	client := &Client{store: fake}

	key := client.OTPKey("ord-1")
	require.NoError(t, client.Set(ctx, key, "4821", 10*time.Minute))

	got, err := client.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "4821", got)
	assert.Equal(t, 10*time.Minute, fake.expiries[key])

	require.NoError(t, client.Del(ctx, key))
	_, err = client.Get(ctx, key)
	assert.ErrorIs(t, err, Nil)
}

func TestSetNXCooldown(t *testing.T) {
	ctx := context.Background()
	client := &Client{store: newFakeCmdable()}

	key := client.OTPCooldownKey("ord-1")
	ok, err := client.SetNX(ctx, key, "1", 30*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = client.SetNX(ctx, key, "1", 30*time.Second)
	require.NoError(t, err)
	assert.False(t, ok, "second resend inside the cooldown window must be rejected")
}

func TestIncrWithTTLSetsExpiryOnce(t *testing.T) {
	ctx := context.Background()
	fake := newFakeCmdable()
	client := &Client{store: fake}

	count, err := client.IncrWithTTL(ctx, "fo:counter", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, time.Minute, fake.expiries["fo:counter"])

	fake.expiries["fo:counter"] = 5 * time.Second
	count, err = client.IncrWithTTL(ctx, "fo:counter", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.Equal(t, 5*time.Second, fake.expiries["fo:counter"], "expiry is only set on the first increment")
}

func TestFixedWindowAllow(t *testing.T) {
	ctx := context.Background()
	client := &Client{store: newFakeCmdable()}

	for i := 0; i < 3; i++ {
		allowed, _, err := client.FixedWindowAllow(ctx, "verify:ord-1", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)
	}
	allowed, count, err := client.FixedWindowAllow(ctx, "verify:ord-1", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, int64(4), count)
}

func TestUninitializedClient(t *testing.T) {
	ctx := context.Background()
	client := &Client{}

	assert.Error(t, client.Ping(ctx))
	assert.Error(t, client.Set(ctx, "k", "v", 0))
	_, err := client.Get(ctx, "k")
	assert.Error(t, err)
}
