package app

import (
	"sync"
	"time"
)

// QuestionTimer calls onTick once per interval until stopped. One timer covers
// one active question; the session starts a fresh one on every transition.
type QuestionTimer struct {
	stop chan struct{}
	once sync.Once
}

// StartQuestionTimer starts ticking immediately.
func StartQuestionTimer(interval time.Duration, onTick func()) *QuestionTimer {
	t := &QuestionTimer{stop: make(chan struct{})}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-t.stop:
				return
			case <-ticker.C:
				// a stop racing with a tick wins
				select {
				case <-t.stop:
					return
				default:
				}
				onTick()
			}
		}
	}()
	return t
}

// Stop cancels the timer. It never blocks, so onTick may call it.
func (t *QuestionTimer) Stop() {
	t.once.Do(func() { close(t.stop) })
}
