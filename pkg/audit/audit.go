// Package audit delivers business events to the audit log through a single
// actor, so writes happen off the request path and in the order recorded.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/example/bitebuddy/pkg/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

const writeTimeout = 5 * time.Second

// Store persists audit entries. *repository.MongoRepository satisfies it.
type Store interface {
	CreateAuditLog(ctx context.Context, log *repository.AuditLog) error
}

type recordEntry struct {
	entry *repository.AuditLog
}

type flush struct{}

type flushed struct{}

type auditActor struct {
	store  Store
	logger *zap.Logger
}

func (a *auditActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *recordEntry:
		writeCtx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := a.store.CreateAuditLog(writeCtx, msg.entry)
		cancel()
		if err != nil {
			a.logger.Error("Failed to write audit log",
				zap.String("action", msg.entry.Action),
				zap.String("entity_id", msg.entry.EntityID),
				zap.Error(err))
		}

	case *flush:
		ctx.Respond(&flushed{})

	case *actor.Started:
		a.logger.Info("Audit actor started")

	case *actor.Stopped:
		a.logger.Info("Audit actor stopped")
	}
}

type Recorder struct {
	service string
	system  *actor.ActorSystem
	pid     *actor.PID
	logger  *zap.Logger
}

// NewRecorder spawns the audit actor. service is stamped on every entry.
func NewRecorder(service string, store Store, logger *zap.Logger) (*Recorder, error) {
	system := actor.NewActorSystem()

	props := actor.PropsFromProducer(func() actor.Actor {
		return &auditActor{store: store, logger: logger.Named("audit-actor")}
	})
	pid, err := system.Root.SpawnNamed(props, "audit-actor")
	if err != nil {
		return nil, fmt.Errorf("failed to spawn audit actor: %w", err)
	}

	return &Recorder{service: service, system: system, pid: pid, logger: logger}, nil
}

// Record enqueues an entry and returns immediately.
func (r *Recorder) Record(action, entityID string, data map[string]interface{}) {
	r.system.Root.Send(r.pid, &recordEntry{entry: &repository.AuditLog{
		Service:   r.service,
		Action:    action,
		EntityID:  entityID,
		Data:      bson.M(data),
		CreatedAt: time.Now(),
	}})
}

// Flush waits until every entry recorded before the call has been written.
func (r *Recorder) Flush(timeout time.Duration) error {
	_, err := r.system.Root.RequestFuture(r.pid, &flush{}, timeout).Result()
	if err != nil {
		return fmt.Errorf("failed to flush audit log: %w", err)
	}
	return nil
}

// Stop drains the mailbox and shuts the actor down.
func (r *Recorder) Stop(timeout time.Duration) {
	if err := r.Flush(timeout); err != nil {
		r.logger.Warn("Audit log not fully flushed", zap.Error(err))
	}
	if err := r.system.Root.StopFuture(r.pid).Wait(); err != nil {
		r.logger.Warn("Failed to stop audit actor", zap.Error(err))
	}
}
