package discovery

import (
	"context"
	"fmt"
	"sync"

	"github.com/example/bitebuddy/pkg/config"
	clientv3 "go.etcd.io/etcd/client/v3"
	"go.uber.org/zap"
)

// Registrar announces this gateway instance in etcd under a leased key that
// disappears when the process stops renewing it.
type Registrar struct {
	client *clientv3.Client
	config *config.EtcdConfig
	logger *zap.Logger

	mu    sync.Mutex
	lease clientv3.LeaseID
}

type Instance struct {
	Name string
	Host string
	Port int
}

func (i *Instance) Addr() string {
	return fmt.Sprintf("%s:%d", i.Host, i.Port)
}

// Key is the etcd key an instance is registered under.
func Key(prefix string, instance *Instance) string {
	return fmt.Sprintf("%s%s/%s", prefix, instance.Name, instance.Addr())
}

func NewRegistrar(cfg *config.EtcdConfig, logger *zap.Logger) (*Registrar, error) {
	cli, err := clientv3.New(clientv3.Config{
		Endpoints:   cfg.Endpoints,
		DialTimeout: cfg.DialTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to etcd: %w", err)
	}

	return &Registrar{
		client: cli,
		config: cfg,
		logger: logger,
	}, nil
}

func (r *Registrar) Register(ctx context.Context, instance *Instance) error {
	lease, err := r.client.Grant(ctx, r.config.LeaseTTL)
	if err != nil {
		return fmt.Errorf("failed to create lease: %w", err)
	}

	key := Key(r.config.Prefix, instance)
	if _, err := r.client.Put(ctx, key, instance.Addr(), clientv3.WithLease(lease.ID)); err != nil {
		return fmt.Errorf("failed to register service: %w", err)
	}

	ch, err := r.client.KeepAlive(context.Background(), lease.ID)
	if err != nil {
		return fmt.Errorf("failed to keep alive: %w", err)
	}

	r.mu.Lock()
	r.lease = lease.ID
	r.mu.Unlock()

	go func() {
		for range ch {
		}
		r.logger.Warn("etcd lease keep-alive stopped", zap.String("key", key))
	}()

	r.logger.Info("Service registered in etcd", zap.String("key", key), zap.Int64("lease_ttl", r.config.LeaseTTL))
	return nil
}

// Deregister revokes the lease, which removes the key immediately.
func (r *Registrar) Deregister(ctx context.Context) error {
	r.mu.Lock()
	lease := r.lease
	r.lease = 0
	r.mu.Unlock()

	if lease == 0 {
		return nil
	}
	if _, err := r.client.Revoke(ctx, lease); err != nil {
		return fmt.Errorf("failed to deregister service: %w", err)
	}
	return nil
}

func (r *Registrar) Close() error {
	return r.client.Close()
}
