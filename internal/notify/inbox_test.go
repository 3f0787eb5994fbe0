package notify_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/nikolayk812/beautyshop/internal/domain"
	"github.com/nikolayk812/beautyshop/internal/notify"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInbox_Drain(t *testing.T) {
	inbox := notify.NewInbox(0, nil)
	assert.Empty(t, inbox.Drain())

	first := domain.Notification{Message: "Matte Lipstick added to cart", Type: domain.NotificationSuccess}
	second := domain.Notification{Message: "Something went wrong. Please try again.", Type: domain.NotificationError}
	inbox.Notify(first)
	inbox.Notify(second)

	assert.Equal(t, []domain.Notification{first, second}, inbox.Drain())
	assert.Empty(t, inbox.Drain())
	assert.Zero(t, inbox.Len())
}

func TestInbox_DropsOldest(t *testing.T) {
	inbox := notify.NewInbox(3, nil)

	for i := 0; i < 5; i++ {
		inbox.Notify(domain.Notification{Message: fmt.Sprint(i), Type: domain.NotificationInfo})
	}

	got := inbox.Drain()
	assert.Equal(t, []string{"2", "3", "4"}, messages(got))
}

func TestInbox_Logs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	inbox := notify.NewInbox(0, zap.New(core))

	inbox.Notify(domain.Notification{Message: "M-Pesa payment failed.", Type: domain.NotificationError})
	inbox.Notify(domain.Notification{Message: "Payment prompt sent.", Type: domain.NotificationInfo})

	entries := logs.All()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
		assert.Equal(t, "notify", entries[0].LoggerName)
		assert.Equal(t, "M-Pesa payment failed.", entries[0].ContextMap()["message"])
		assert.Equal(t, zapcore.DebugLevel, entries[1].Level)
	}
}

func TestInbox_Concurrent(t *testing.T) {
	inbox := notify.NewInbox(1000, nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				inbox.Notify(domain.Notification{Message: "x", Type: domain.NotificationInfo})
			}
		}()
	}
	wg.Wait()

	assert.Len(t, inbox.Drain(), 200)
}

func messages(ns []domain.Notification) []string {
	out := make([]string, 0, len(ns))
	for _, n := range ns {
		out = append(out, n.Message)
	}
	return out
}
