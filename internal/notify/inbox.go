package notify

import (
	"sync"

	"github.com/nikolayk812/beautyshop/internal/domain"
	"go.uber.org/zap"
)

const DefaultCapacity = 50

// Inbox collects notifications for one session until the client drains them.
// When full, the oldest notification is dropped.
type Inbox struct {
	mu       sync.Mutex
	pending  []domain.Notification
	capacity int
	logger   *zap.Logger
}

func NewInbox(capacity int, logger *zap.Logger) *Inbox {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Inbox{
		capacity: capacity,
		logger:   logger.Named("notify"),
	}
}

func (i *Inbox) Notify(n domain.Notification) {
	i.log(n)

	i.mu.Lock()
	defer i.mu.Unlock()

	if len(i.pending) == i.capacity {
		i.pending = i.pending[1:]
	}
	i.pending = append(i.pending, n)
}

// Drain returns pending notifications oldest first and empties the inbox.
func (i *Inbox) Drain() []domain.Notification {
	i.mu.Lock()
	defer i.mu.Unlock()

	drained := i.pending
	i.pending = nil

	return drained
}

func (i *Inbox) Len() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.pending)
}

func (i *Inbox) log(n domain.Notification) {
	fields := []zap.Field{zap.String("type", string(n.Type)), zap.String("message", n.Message)}

	switch n.Type {
	case domain.NotificationError:
		i.logger.Warn("notification", fields...)
	default:
		i.logger.Debug("notification", fields...)
	}
}
