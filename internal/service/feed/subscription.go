package feed

import (
	"context"
	"sync/atomic"
)

// Subscription - хендл живой выборки. Первым приходит начальный снимок,
// затем свежий снимок после каждого изменения. Unsubscribe можно вызвать
// в любой момент, в том числе из колбэка.
type Subscription struct {
	kind    string
	cancel  context.CancelFunc
	done    chan struct{}
	stopped atomic.Bool
}

// Unsubscribe останавливает подписку. После возврата новые вызовы колбэков не начинаются.
func (s *Subscription) Unsubscribe() {
	s.stopped.Store(true)
	s.cancel()
}

// Done закрывается, когда горутина подписки завершилась.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

func (s *Subscription) Kind() string {
	return s.kind
}

func (s *Subscription) active() bool {
	return !s.stopped.Load()
}
