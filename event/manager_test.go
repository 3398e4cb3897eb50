package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Manager_Fire(t *testing.T) {
	m := NewManager()
	called := false

	m.AddListener(func(e Event) {
		called = true
	})

	m.Fire(EmptyEvent)
	assert.True(t, called)
}

func Test_Manager_ExecuteOnce(t *testing.T) {
	m := NewManager()
	count := 0

	m.AddOnceListener(func(e Event) {
		count++
	})

	m.Fire(EmptyEvent)
	m.Fire(EmptyEvent)
	assert.Equal(t, 1, count)
}

func Test_Manager_Async(t *testing.T) {
	m := NewManager()
	done := make(chan bool, 1)

	m.AddAsyncListener(func(e Event) {
		done <- true
	})

	m.Fire(EmptyEvent)
	assert.True(t, <-done)
}

func Test_Manager_RemoveListener(t *testing.T) {
	m := NewManager()
	called := false

	callback := func(e Event) {
		called = true
	}

	m.AddListener(callback)
	m.RemoveListener(callback)
	m.Fire(EmptyEvent)

	assert.False(t, called)
}

func Test_Manager_AsyncOnce(t *testing.T) {
	m := NewManager()
	done := make(chan bool, 1)
	count := 0

	m.AddAsyncOnceListener(func(e Event) {
		count++
		done <- true
	})

	m.Fire(EmptyEvent)
	<-done
	m.Fire(EmptyEvent)

	assert.Equal(t, 1, count)
}
