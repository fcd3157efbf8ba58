package ratelimit

import (
	"testing"
	"time"
)

func TestAllowWithinLimit(t *testing.T) {
	l := New(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !l.Allow("client") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if l.Allow("client") {
		t.Fatal("request over the limit should be rejected")
	}
}

func TestWindowElapses(t *testing.T) {
	now := time.Unix(1700000000, 0)
	l := New(2, time.Minute)
	l.now = func() time.Time { return now }

	if !l.Allow("client") || !l.Allow("client") {
		t.Fatal("first two requests should be allowed")
	}
	if l.Allow("client") {
		t.Fatal("third request within the window should be rejected")
	}

	now = now.Add(time.Minute + time.Second)
	if !l.Allow("client") {
		t.Fatal("request after the window elapsed should be allowed")
	}
}

func TestClientsAreIndependent(t *testing.T) {
	l := New(1, time.Minute)

	if !l.Allow("a") {
		t.Fatal("first request from a should be allowed")
	}
	if l.Allow("a") {
		t.Fatal("second request from a should be rejected")
	}
	if !l.Allow("b") {
		t.Fatal("request from b should not be affected by a")
	}
}

func TestRemaining(t *testing.T) {
	l := New(3, time.Minute)

	if got := l.Remaining("client"); got != 3 {
		t.Fatalf("Remaining() = %d, want 3", got)
	}

	l.Allow("client")
	l.Allow("client")
	if got := l.Remaining("client"); got != 1 {
		t.Fatalf("Remaining() = %d, want 1", got)
	}

	l.Allow("client")
	l.Allow("client") // rejected, must not consume
	if got := l.Remaining("client"); got != 0 {
		t.Fatalf("Remaining() = %d, want 0", got)
	}
}
