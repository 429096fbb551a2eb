package notifier

import (
	"context"
	"testing"
	"time"

	"github.com/dharashakti/backoffice/internal/common/cnst"
	"github.com/dharashakti/backoffice/internal/common/config"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRedisNotifier_CanSendReceiveByRole(t *testing.T) {
	nRecv := &RedisNotifier{role: config.RoleReceiver}
	assert.True(t, nRecv.CanReceive())
	assert.False(t, nRecv.CanSend())

	nSend := &RedisNotifier{role: config.RoleSender}
	assert.False(t, nSend.CanReceive())
	assert.True(t, nSend.CanSend())

	nBoth := &RedisNotifier{role: config.RoleBoth}
	assert.True(t, nBoth.CanReceive())
	assert.True(t, nBoth.CanSend())
}

func TestRedisNotifier_WatchAndPublish(t *testing.T) {
	mr := miniredis.RunT(t)
	logger := zap.NewNop()
	cfg := &config.RedisConfig{ClusterType: cnst.RedisClusterTypeSingle, Addr: mr.Addr(), Topic: "test:events"}

	recv, err := NewRedisNotifier(logger, cfg, config.RoleReceiver)
	require.NoError(t, err)
	defer recv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, err := recv.Watch(ctx)
	require.NoError(t, err)

	// let the reader reach its first blocking XREAD so "$" is resolved
	time.Sleep(200 * time.Millisecond)

	send, err := NewRedisNotifier(logger, cfg, config.RoleSender)
	require.NoError(t, err)
	defer send.Close()
	require.NoError(t, send.Publish(context.Background(), &SessionEvent{
		Kind: EventSessionEvicted, EmployeeID: "87654321", SessionID: "abc", At: time.Now(),
	}))

	select {
	case got := <-ch:
		require.NotNil(t, got)
		assert.Equal(t, EventSessionEvicted, got.Kind)
		assert.Equal(t, "87654321", got.EmployeeID)
		assert.Equal(t, "abc", got.SessionID)
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for redis stream event")
	}

	cancel()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("watch channel did not close in time")
		}
	}
}

func TestRedisNotifier_RoleErrors(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &config.RedisConfig{Addr: mr.Addr()}

	send, err := NewRedisNotifier(zap.NewNop(), cfg, config.RoleSender)
	require.NoError(t, err)
	defer send.Close()
	_, err = send.Watch(context.Background())
	assert.ErrorIs(t, err, cnst.ErrNotReceiver)

	recv, err := NewRedisNotifier(zap.NewNop(), cfg, config.RoleReceiver)
	require.NoError(t, err)
	defer recv.Close()
	assert.ErrorIs(t, recv.Publish(context.Background(), &SessionEvent{}), cnst.ErrNotSender)
}

func TestRedisNotifier_ConnectFailure(t *testing.T) {
	_, err := NewRedisNotifier(zap.NewNop(), &config.RedisConfig{Addr: "127.0.0.1:1"}, config.RoleBoth)
	assert.Error(t, err)

	_, err = NewRedisNotifier(zap.NewNop(), &config.RedisConfig{}, config.RoleBoth)
	assert.Error(t, err)
}
