package tui

import (
	"sync"

	"tableflip.dev/taskflow/pkg/bus"
)

// forwarder hands bus events to the program from its own goroutine. push
// never blocks, so a writer publishing an event is never held up by the
// event loop, which may itself be waiting on the Service.
type forwarder struct {
	mu    sync.Mutex
	queue []bus.Event
	wake  chan struct{}
	done  chan struct{}
	send  func(bus.Event)
	wg    sync.WaitGroup
}

func newForwarder(send func(bus.Event)) *forwarder {
	f := &forwarder{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
		send: send,
	}
	f.wg.Add(1)
	go f.run()
	return f
}

// push queues ev in publish order.
func (f *forwarder) push(ev bus.Event) {
	f.mu.Lock()
	f.queue = append(f.queue, ev)
	f.mu.Unlock()
	select {
	case f.wake <- struct{}{}:
	default:
	}
}

func (f *forwarder) run() {
	defer f.wg.Done()
	for {
		select {
		case <-f.done:
			return
		case <-f.wake:
		}
		f.mu.Lock()
		batch := f.queue
		f.queue = nil
		f.mu.Unlock()
		for _, ev := range batch {
			select {
			case <-f.done:
				return
			default:
			}
			f.send(ev)
		}
	}
}

// stop ends the goroutine. Queued events are dropped.
func (f *forwarder) stop() {
	close(f.done)
	f.wg.Wait()
}
