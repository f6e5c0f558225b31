package notify

import (
	"testing"
	"time"
)

func TestHubRegisterPushUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{
		Send:   make(chan []byte, 10),
		UserID: "u1",
	}
	hub.register <- client

	data := []byte(`{"message":"order shipped"}`)
	hub.Push("u1", data)

	select {
	case got := <-client.Send:
		if string(got) != string(data) {
			t.Fatalf("expected %s, got %s", data, got)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for push")
	}

	hub.unregister <- client
	hub.Stop()
}

func TestHubPushToUnknownUserDoesNotBlock(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	done := make(chan struct{})
	go func() {
		hub.Push("nobody", []byte("x"))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Fatal("push to unknown user blocked")
	}
}

func TestHubSeparatesUsers(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	a := &Client{Send: make(chan []byte, 10), UserID: "a"}
	b := &Client{Send: make(chan []byte, 10), UserID: "b"}
	hub.register <- a
	hub.register <- b

	hub.Push("a", []byte("for a"))

	select {
	case got := <-a.Send:
		if string(got) != "for a" {
			t.Fatalf("unexpected payload %s", got)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for a's push")
	}

	select {
	case got := <-b.Send:
		t.Fatalf("b should not receive a's notification, got %s", got)
	case <-time.After(100 * time.Millisecond):
	}
}
