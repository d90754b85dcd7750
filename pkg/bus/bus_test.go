package bus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/taskflow/pkg/task"
)

func TestPublishDeliversInSubscriptionOrder(t *testing.T) {
	b := New()
	var order []string
	b.Subscribe(func(Event) { order = append(order, "first") })
	b.Subscribe(func(Event) { order = append(order, "second") })
	b.Subscribe(func(Event) { order = append(order, "third") })

	b.Publish(Event{Kind: TasksChanged})
	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestPublishIsSynchronous(t *testing.T) {
	b := New()
	var seen task.Collection
	b.Subscribe(func(ev Event) { seen = ev.Tasks })

	c := task.Collection{{ID: "a", Title: "a"}}
	b.Publish(Event{Kind: TasksChanged, Tasks: c})
	require.Len(t, seen, 1, "handler must run before Publish returns")
	assert.Equal(t, "a", seen[0].ID)
}

func TestBackToBackPublishesAreNotDropped(t *testing.T) {
	b := New()
	var seqs []uint64
	b.Subscribe(func(ev Event) { seqs = append(seqs, ev.Seq) })

	const n = 250
	for i := 0; i < n; i++ {
		b.Publish(Event{Kind: TasksChanged})
	}
	require.Len(t, seqs, n)
	for i := 1; i < len(seqs); i++ {
		assert.Equal(t, seqs[i-1]+1, seqs[i])
	}
	assert.Equal(t, uint64(n), b.Seq())
}

func TestUnsubscribe(t *testing.T) {
	b := New()
	count := 0
	unsub := b.Subscribe(func(Event) { count++ })
	b.Publish(Event{})
	unsub()
	unsub()
	b.Publish(Event{})

	assert.Equal(t, 1, count)
	assert.Equal(t, 0, b.Len())
}

func TestUnsubscribeDuringDelivery(t *testing.T) {
	b := New()
	var calls []string
	var unsubSecond func()
	b.Subscribe(func(Event) {
		calls = append(calls, "first")
		unsubSecond()
	})
	unsubSecond = b.Subscribe(func(Event) { calls = append(calls, "second") })
	b.Subscribe(func(Event) { calls = append(calls, "third") })

	b.Publish(Event{})
	b.Publish(Event{})
	assert.Equal(t, []string{"first", "third", "first", "third"}, calls)
	assert.Equal(t, 2, b.Len())
}

func TestSelfUnsubscribe(t *testing.T) {
	b := New()
	count := 0
	var unsub func()
	unsub = b.Subscribe(func(Event) {
		count++
		unsub()
	})
	b.Publish(Event{})
	b.Publish(Event{})
	assert.Equal(t, 1, count)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "tasks", TasksChanged.String())
	assert.Equal(t, "tags", TagsChanged.String())
	assert.Equal(t, "external", External.String())
}
