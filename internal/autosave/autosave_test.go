package autosave

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBurstIsCoalesced(t *testing.T) {
	a := New(20 * time.Millisecond)
	for i := 0; i < 10; i++ {
		a.Touch()
	}

	select {
	case <-a.Requests():
	case <-time.After(time.Second):
		t.Fatal("no save requested")
	}

	select {
	case <-a.Requests():
		t.Fatal("burst produced more than one save")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestPendingRequestsDoNotBlock(t *testing.T) {
	a := New(time.Millisecond)
	a.request()
	a.request()
	assert.Len(t, a.Requests(), 1)
}
