package cache

import (
	"context"
	"time"

	valkey "github.com/valkey-io/valkey-go"
)

// ValkeyClient implements Cache using Valkey, so the run lock holds across processes.
type ValkeyClient struct {
	c valkey.Client
}

func NewValkey(addr, password string) (*ValkeyClient, error) {
	opts := valkey.ClientOption{
		InitAddress: []string{addr},
	}
	if password != "" {
		opts.Username = "default"
		opts.Password = password
	}
	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, err
	}
	return &ValkeyClient{c: client}, nil
}

func (v *ValkeyClient) Close() { v.c.Close() }

func (v *ValkeyClient) Get(ctx context.Context, key string) (string, bool) {
	str, err := v.c.Do(ctx, v.c.B().Get().Key(key).Build()).ToString()
	if err != nil {
		return "", false
	}
	return str, true
}

func (v *ValkeyClient) Set(ctx context.Context, key string, val string, ttl time.Duration) error {
	if ttl > 0 {
		return v.c.Do(ctx, v.c.B().Set().Key(key).Value(val).ExSeconds(int64(ttl/time.Second)).Build()).Error()
	}
	return v.c.Do(ctx, v.c.B().Set().Key(key).Value(val).Build()).Error()
}

func (v *ValkeyClient) SetNX(ctx context.Context, key string, val string, ttl time.Duration) (bool, error) {
	var cmd valkey.Completed
	if ttl > 0 {
		cmd = v.c.B().Set().Key(key).Value(val).Nx().ExSeconds(int64(ttl / time.Second)).Build()
	} else {
		cmd = v.c.B().Set().Key(key).Value(val).Nx().Build()
	}
	err := v.c.Do(ctx, cmd).Error()
	if valkey.IsValkeyNil(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (v *ValkeyClient) Delete(ctx context.Context, key string) error {
	return v.c.Do(ctx, v.c.B().Del().Key(key).Build()).Error()
}
