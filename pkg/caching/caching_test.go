package caching

import (
	"testing"
	"time"
)

func TestCache_SetGet(t *testing.T) {
	c, err := NewCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("NewCache() failed: %v", err)
	}

	if _, ok := c.Get("https://t.me/s/chan"); ok {
		t.Fatal("Get() on empty cache hit, want miss")
	}
	if err := c.Set("https://t.me/s/chan", []byte("<html></html>")); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	got, ok := c.Get("https://t.me/s/chan")
	if !ok {
		t.Fatal("Get() after Set() missed")
	}
	if string(got) != "<html></html>" {
		t.Errorf("Get() = %q, want %q", got, "<html></html>")
	}
	if _, ok := c.Get("https://t.me/s/other"); ok {
		t.Error("Get() for a different url hit")
	}
}

func TestCache_Expired(t *testing.T) {
	c, err := NewCache(t.TempDir(), time.Minute)
	if err != nil {
		t.Fatalf("NewCache() failed: %v", err)
	}
	if err := c.Set("u", []byte("x")); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	c.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	if _, ok := c.Get("u"); ok {
		t.Error("Get() returned an expired entry")
	}
}
