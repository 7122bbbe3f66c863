package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"

	"github.com/zero-day-ai/metaprop"
)

// EtcdOptions configures the etcd connection.
type EtcdOptions struct {
	Endpoints []string

	// Namespace prefixes every key. Defaults to "metaprop".
	Namespace string

	// DialTimeout defaults to 5s.
	DialTimeout time.Duration
}

// Etcd keeps objects under "/<namespace>/objects/<key>".
type Etcd struct {
	kv        clientv3.KV
	client    *clientv3.Client
	namespace string
}

var _ Backend = (*Etcd)(nil)

// NewEtcd connects to the etcd cluster and verifies connectivity.
func NewEtcd(opts EtcdOptions) (*Etcd, error) {
	if len(opts.Endpoints) == 0 {
		return nil, fmt.Errorf("etcd endpoints cannot be empty")
	}
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = 5 * time.Second
	}

	cli, err := clientv3.New(clientv3.Config{
		Endpoints:   opts.Endpoints,
		DialTimeout: opts.DialTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create etcd client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), opts.DialTimeout)
	defer cancel()
	if _, err := cli.Get(ctx, "health-check"); err != nil {
		_ = cli.Close()
		return nil, fmt.Errorf("etcd health check failed: %w", err)
	}

	e := NewEtcdKV(cli, opts.Namespace)
	e.client = cli
	return e, nil
}

// NewEtcdKV creates a backend over an existing key-value client. Close does not close kv.
func NewEtcdKV(kv clientv3.KV, namespace string) *Etcd {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &Etcd{kv: kv, namespace: namespace}
}

func (e *Etcd) Name() string { return "etcd" }

func (e *Etcd) prefix() string {
	return fmt.Sprintf("/%s/objects/", e.namespace)
}

func (e *Etcd) Put(ctx context.Context, key string, data []byte) error {
	if _, err := e.kv.Put(ctx, e.prefix()+key, string(data)); err != nil {
		return fmt.Errorf("failed to store %s: %w", key, err)
	}
	return nil
}

func (e *Etcd) Get(ctx context.Context, key string) ([]byte, error) {
	resp, err := e.kv.Get(ctx, e.prefix()+key)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", key, err)
	}
	if len(resp.Kvs) == 0 {
		return nil, fmt.Errorf("%w: %s", metaprop.ErrNotFound, key)
	}
	return resp.Kvs[0].Value, nil
}

func (e *Etcd) Delete(ctx context.Context, key string) error {
	resp, err := e.kv.Delete(ctx, e.prefix()+key)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	if resp.Deleted == 0 {
		return fmt.Errorf("%w: %s", metaprop.ErrNotFound, key)
	}
	return nil
}

func (e *Etcd) Keys(ctx context.Context) ([]string, error) {
	prefix := e.prefix()
	resp, err := e.kv.Get(ctx, prefix,
		clientv3.WithPrefix(),
		clientv3.WithKeysOnly(),
		clientv3.WithSort(clientv3.SortByKey, clientv3.SortAscend))
	if err != nil {
		return nil, fmt.Errorf("failed to list objects: %w", err)
	}
	keys := make([]string, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		keys = append(keys, strings.TrimPrefix(string(kv.Key), prefix))
	}
	return keys, nil
}

// Close closes the etcd client when the backend created it.
func (e *Etcd) Close() error {
	if e.client == nil {
		return nil
	}
	return e.client.Close()
}

// Ping reads a sentinel key to check the cluster is reachable.
func (e *Etcd) Ping(ctx context.Context) error {
	if _, err := e.kv.Get(ctx, "health-check"); err != nil {
		return fmt.Errorf("etcd health check failed: %w", err)
	}
	return nil
}
