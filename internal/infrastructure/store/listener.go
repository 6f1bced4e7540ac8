package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/TixyFR/alymjr-portfolio-98/internal/domain"
)

// notifyChannel is the pg_notify channel fed by the gallery_items triggers.
const notifyChannel = "gallery_items_changes"

const (
	minReconnectInterval = time.Second
	maxReconnectInterval = 30 * time.Second
	pingInterval         = 90 * time.Second
)

// pgSubscription consumes LISTEN/NOTIFY payloads from a dedicated pq
// connection and turns them into domain change events. Reconnection after
// a dropped connection is handled by pq.Listener itself.
type pgSubscription struct {
	listener *pq.Listener
	scope    domain.QueryScope
	events   chan domain.ChangeEvent
	done     chan struct{}
	wg       sync.WaitGroup

	mu  sync.Mutex
	err error

	closeOnce sync.Once
	logger    *zap.Logger
}

// Subscribe opens the change feed, optionally scoped to one category.
func (s *PostgresStore) Subscribe(ctx context.Context, scope domain.QueryScope) (domain.Subscription, error) {
	return subscribePG(ctx, s.connStr, scope, zap.NewNop())
}

// SubscribeLogged is Subscribe with connection events logged.
func (s *PostgresStore) SubscribeLogged(ctx context.Context, scope domain.QueryScope, logger *zap.Logger) (domain.Subscription, error) {
	return subscribePG(ctx, s.connStr, scope, logger)
}

func subscribePG(ctx context.Context, connStr string, scope domain.QueryScope, logger *zap.Logger) (domain.Subscription, error) {
	sub := &pgSubscription{
		scope:  scope,
		events: make(chan domain.ChangeEvent, 16),
		done:   make(chan struct{}),
		logger: logger,
	}

	sub.listener = pq.NewListener(connStr, minReconnectInterval, maxReconnectInterval, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			logger.Warn("listener connection event", zap.Int("event", int(ev)), zap.Error(err))
			sub.setErr(&domain.SubscriptionError{Err: err})
		}
	})
	if err := sub.listener.Listen(notifyChannel); err != nil {
		sub.listener.Close()
		return nil, &domain.SubscriptionError{Err: err}
	}

	sub.wg.Add(1)
	go sub.run(ctx)
	return sub, nil
}

func (s *pgSubscription) run(ctx context.Context) {
	defer s.wg.Done()
	defer close(s.events)

	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case <-ping.C:
			go func() {
				if err := s.listener.Ping(); err != nil {
					s.setErr(&domain.SubscriptionError{Err: err})
				}
			}()
		case n := <-s.listener.Notify:
			if n == nil {
				// pq signals a reconnect with a nil notification; missed
				// events are the repository's problem to reconcile via Load.
				continue
			}
			event, ok := s.decode(n.Extra)
			if !ok {
				continue
			}
			select {
			case s.events <- event:
			case <-s.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}
}

func (s *pgSubscription) decode(payload string) (domain.ChangeEvent, bool) {
	var event domain.ChangeEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		s.logger.Warn("malformed change payload", zap.Error(err))
		return domain.ChangeEvent{}, false
	}
	if !s.scope.Matches(event.Record) {
		return domain.ChangeEvent{}, false
	}
	if event.Record.Category == "" {
		event.Record.Category = domain.CategoryMiniatures
		event.Record.Legacy = true
	}
	return event, true
}

func (s *pgSubscription) Events() <-chan domain.ChangeEvent { return s.events }

func (s *pgSubscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *pgSubscription) setErr(err error) {
	s.mu.Lock()
	if s.err == nil {
		s.err = err
	}
	s.mu.Unlock()
}

func (s *pgSubscription) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		err = s.listener.Close()
		s.wg.Wait()
	})
	return err
}
