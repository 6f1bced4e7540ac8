package application

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/TixyFR/alymjr-portfolio-98/internal/domain"
)

// ListenerState tracks the live listener's lifecycle.
type ListenerState int32

const (
	StateDisconnected ListenerState = iota
	StateConnecting
	StateActive
)

func (s ListenerState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateActive:
		return "active"
	default:
		return "disconnected"
	}
}

// LiveListener bridges the content store's push feed into the repository
// cache. It holds exactly one store subscription, which is released by
// Close; that call is mandatory when the consuming scope goes away.
type LiveListener struct {
	repo   *ContentRepository
	scope  domain.QueryScope
	logger *zap.Logger

	mu    sync.Mutex
	state ListenerState
	sub   domain.Subscription

	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

func NewLiveListener(repo *ContentRepository, scope domain.QueryScope, logger *zap.Logger) *LiveListener {
	return &LiveListener{
		repo:   repo,
		scope:  scope,
		logger: logger,
		done:   make(chan struct{}),
	}
}

// Start opens the store subscription and begins folding events into the
// repository. It fails with SubscriptionError when the channel cannot be
// established.
func (l *LiveListener) Start(ctx context.Context) error {
	l.mu.Lock()
	if l.state != StateDisconnected {
		l.mu.Unlock()
		return ErrAlreadySubscribed
	}
	l.state = StateConnecting
	l.mu.Unlock()

	sub, err := l.repo.store.Subscribe(ctx, l.scope)
	if err != nil {
		l.mu.Lock()
		l.state = StateDisconnected
		l.mu.Unlock()
		var subErr *domain.SubscriptionError
		if errors.As(err, &subErr) {
			return err
		}
		return &domain.SubscriptionError{Err: err}
	}

	l.mu.Lock()
	l.sub = sub
	l.state = StateActive
	l.mu.Unlock()

	l.wg.Add(1)
	go l.run()
	return nil
}

func (l *LiveListener) run() {
	defer l.wg.Done()
	for {
		select {
		case <-l.done:
			return
		case event, ok := <-l.sub.Events():
			if !ok {
				if err := l.sub.Err(); err != nil {
					l.logger.Warn("live feed dropped", zap.Error(err))
				}
				l.mu.Lock()
				l.state = StateDisconnected
				l.mu.Unlock()
				return
			}
			l.repo.applyEvent(event)
		}
	}
}

// State returns the current lifecycle state.
func (l *LiveListener) State() ListenerState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Err surfaces a channel failure, when the transport reports one.
func (l *LiveListener) Err() error {
	l.mu.Lock()
	sub := l.sub
	l.mu.Unlock()
	if sub == nil {
		return nil
	}
	return sub.Err()
}

// Close tears the subscription down and waits for the fold goroutine to
// stop. Safe to call more than once.
func (l *LiveListener) Close() error {
	var err error
	l.closeOnce.Do(func() {
		close(l.done)
		l.mu.Lock()
		sub := l.sub
		l.state = StateDisconnected
		l.mu.Unlock()
		if sub != nil {
			err = sub.Close()
		}
		l.wg.Wait()
	})
	return err
}
