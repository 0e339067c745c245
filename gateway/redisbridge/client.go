// Package redisbridge publishes attribute-store writes and the radio
// properties cache to Redis, and drains a Redis list of outbound attribute
// writes and API queries, reusing the teacher's HSet/Publish/BRPop client
// shape (pkg/redis/client.go) and its WatchRedisCommands/
// SubscribeToRedisChannels split (pkg/service/redis_handlers.go).
package redisbridge

import (
	"context"
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/redis/go-redis/v9"

	"github.com/fieldlink/isa100gw/uap"
)

// Bridge is a Redis client scoped to the attribute store and properties
// cache of one Host.
type Bridge struct {
	client *redis.Client
	ctx    context.Context
	stopCh chan struct{}
}

// Open connects to the given Redis server. The connection is verified with
// a PING before Open returns, matching the teacher's redis.New.
func Open(addr, password string, db int) (*Bridge, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redisbridge: connect: %w", err)
	}

	return &Bridge{client: client, ctx: ctx, stopCh: make(chan struct{})}, nil
}

// Close closes the underlying Redis connection.
func (b *Bridge) Close() error {
	return b.client.Close()
}

// Stop signals WatchCommands to return.
func (b *Bridge) Stop() {
	close(b.stopCh)
}

// PublishAttributes CBOR-encodes every analog and digital value in store
// and writes them to the attributes hash, publishing a notification per
// field on ChannelAttributes — the same HSet-then-Publish pipeline as the
// teacher's WriteAndPublishString.
func (b *Bridge) PublishAttributes(store *uap.Store) error {
	pipe := b.client.Pipeline()

	for i := 0; i < uap.AnalogCount; i++ {
		id := byte(i + 1)
		encoded, err := cbor.Marshal(store.Analogs[i].Bytes)
		if err != nil {
			return fmt.Errorf("redisbridge: marshal analog %d: %w", id, err)
		}
		field := analogField(id)
		pipe.HSet(b.ctx, KeyAttributes, field, encoded)
		pipe.Publish(b.ctx, ChannelAttributes, field)
	}

	for i := 0; i < uap.DigitalCount; i++ {
		id := byte(i + 16)
		encoded, err := cbor.Marshal(store.Digitals[i])
		if err != nil {
			return fmt.Errorf("redisbridge: marshal digital %d: %w", id, err)
		}
		field := digitalField(id)
		pipe.HSet(b.ctx, KeyAttributes, field, encoded)
		pipe.Publish(b.ctx, ChannelAttributes, field)
	}

	_, err := pipe.Exec(b.ctx)
	return err
}

// propertiesSnapshot is the CBOR-encodable mirror of uap.Properties.
type propertiesSnapshot struct {
	CRCValid        bool
	HWPlatform      byte
	MaxBufferSize   uint16
	MaxSPISpeed     byte
	FirmwareVersion uint16
}

// PublishProperties CBOR-encodes the whole properties cache as a single
// hash field and publishes a change notification.
func (b *Bridge) PublishProperties(props *uap.Properties) error {
	snap := propertiesSnapshot{
		CRCValid:        props.CRCValid,
		HWPlatform:      props.HWPlatform,
		MaxBufferSize:   props.MaxBufferSize,
		MaxSPISpeed:     props.MaxSPISpeed,
		FirmwareVersion: props.FirmwareVersion,
	}
	encoded, err := cbor.Marshal(snap)
	if err != nil {
		return fmt.Errorf("redisbridge: marshal properties: %w", err)
	}

	pipe := b.client.Pipeline()
	pipe.HSet(b.ctx, KeyProperties, "snapshot", encoded)
	pipe.Publish(b.ctx, ChannelProperties, "snapshot")
	_, err = pipe.Exec(b.ctx)
	return err
}

// brpop waits up to timeout for one entry on key, returning the value (not
// the key) or ("", false) on timeout — isolating the redis.Nil-as-timeout
// convention the teacher's BRPop relies on.
func (b *Bridge) brpop(timeout time.Duration, key string) (string, bool, error) {
	result, err := b.client.BRPop(b.ctx, timeout, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", false, nil
		}
		return "", false, err
	}
	if len(result) != 2 {
		return "", false, fmt.Errorf("redisbridge: unexpected BRPOP result %v", result)
	}
	return result[1], true, nil
}
