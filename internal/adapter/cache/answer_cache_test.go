package cache

import (
	"testing"
	"time"

	"contractiq/internal/domain"
)

func TestAnswerCacheHitMiss(t *testing.T) {
	c := NewAnswerCache(10, time.Minute)

	if _, hit := c.Get("what is the payment term", 5); hit {
		t.Fatal("expected miss on empty cache")
	}

	want := domain.Answer{Query: "what is the payment term", Response: "net 30"}
	c.Put("what is the payment term", 5, want)

	got, hit := c.Get("what is the payment term", 5)
	if !hit {
		t.Fatal("expected hit after Put")
	}
	if got.Response != want.Response {
		t.Errorf("Response = %q, want %q", got.Response, want.Response)
	}

	// Same query with a different topK is a different key
	if _, hit := c.Get("what is the payment term", 3); hit {
		t.Error("expected miss for different topK")
	}
}

func TestAnswerCacheTTLExpiry(t *testing.T) {
	c := NewAnswerCache(10, 10*time.Millisecond)
	c.Put("q", 5, domain.Answer{Response: "a"})

	time.Sleep(20 * time.Millisecond)

	if _, hit := c.Get("q", 5); hit {
		t.Error("expected expired entry to miss")
	}
	if c.Size() != 0 {
		t.Errorf("expected expired entry evicted, size = %d", c.Size())
	}
}

func TestAnswerCacheInvalidate(t *testing.T) {
	c := NewAnswerCache(10, time.Minute)
	c.Put("q1", 5, domain.Answer{Response: "a1"})
	c.Put("q2", 5, domain.Answer{Response: "a2"})

	c.Invalidate()

	if c.Size() != 0 {
		t.Errorf("expected empty cache after Invalidate, size = %d", c.Size())
	}
	if _, hit := c.Get("q1", 5); hit {
		t.Error("expected miss after Invalidate")
	}
}

func TestAnswerCacheLRUEviction(t *testing.T) {
	c := NewAnswerCache(2, time.Minute)
	c.Put("q1", 5, domain.Answer{Response: "a1"})
	c.Put("q2", 5, domain.Answer{Response: "a2"})

	// Touch q1 so q2 becomes the oldest
	if _, hit := c.Get("q1", 5); !hit {
		t.Fatal("expected hit for q1")
	}

	c.Put("q3", 5, domain.Answer{Response: "a3"})

	if _, hit := c.Get("q2", 5); hit {
		t.Error("expected q2 evicted")
	}
	if _, hit := c.Get("q1", 5); !hit {
		t.Error("expected q1 retained")
	}
	if _, hit := c.Get("q3", 5); !hit {
		t.Error("expected q3 present")
	}
}
