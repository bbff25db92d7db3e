package service

import (
	"testing"
	"time"

	"lms_backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestClient(hub *ChatHub, groupID uint) *Client {
	return &Client{Hub: hub, Send: make(chan []byte, 1), GroupID: groupID}
}

func TestDetachUnregistersFromRunningHub(t *testing.T) {
	logger.Log = zap.NewNop()
	hub := NewChatHub(nil)
	go hub.Run()
	defer hub.Stop()

	client := newTestClient(hub, 7)
	hub.register <- client
	client.detachFromHub()

	select {
	case _, ok := <-client.Send:
		assert.False(t, ok, "send channel should be closed on unregister")
	case <-time.After(time.Second):
		t.Fatal("send channel not closed after detach")
	}
}

func TestDetachDoesNotBlockAfterStop(t *testing.T) {
	logger.Log = zap.NewNop()
	hub := NewChatHub(nil)
	go hub.Run()

	client := newTestClient(hub, 7)
	hub.register <- client
	hub.Stop()

	done := make(chan struct{})
	go func() {
		client.detachFromHub()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("detach blocked after hub stop")
	}
}
