package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"petshop_back_end/internal/models"
)

const sendTimeout = 30 * time.Second

// UserLookup finds the recipient of a confirmation.
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (models.User, error)
}

// ProductLookup resolves product titles for the mail body.
type ProductLookup interface {
	Get(ctx context.Context, id int64) (models.Product, error)
}

// OrderMailer queues committed orders and mails a confirmation from a
// background worker, so checkout latency never includes SMTP.
type OrderMailer struct {
	mailer   Mailer
	users    UserLookup
	products ProductLookup
	log      *slog.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan models.Order
	wg     sync.WaitGroup
}

// NewOrderMailer queues up to buffer confirmations. Call Start before use
// and Close on shutdown.
func NewOrderMailer(mailer Mailer, users UserLookup, products ProductLookup, log *slog.Logger, buffer int) *OrderMailer {
	if log == nil {
		log = slog.Default()
	}
	if buffer <= 0 {
		buffer = 64
	}
	return &OrderMailer{
		mailer:   mailer,
		users:    users,
		products: products,
		log:      log,
		queue:    make(chan models.Order, buffer),
	}
}

// Start launches the worker. It returns immediately.
func (m *OrderMailer) Start() {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		for o := range m.queue {
			ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
			if err := m.deliver(ctx, o); err != nil {
				m.log.Error("order confirmation failed", "order_id", o.ID, "user_id", o.UserID, "error", err)
			}
			cancel()
		}
	}()
}

// OrderPlaced enqueues o. A full queue drops the mail rather than block
// the request.
func (m *OrderMailer) OrderPlaced(ctx context.Context, o models.Order) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return
	}
	select {
	case m.queue <- o:
	default:
		m.log.WarnContext(ctx, "order confirmation dropped, queue full", "order_id", o.ID)
	}
}

// Close stops accepting orders and waits for queued mails to go out.
func (m *OrderMailer) Close() {
	m.mu.Lock()
	if !m.closed {
		m.closed = true
		close(m.queue)
	}
	m.mu.Unlock()
	m.wg.Wait()
}

func (m *OrderMailer) deliver(ctx context.Context, o models.Order) error {
	u, err := m.users.GetByID(ctx, o.UserID)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}

	titles := make(map[int64]string, len(o.Items))
	if m.products != nil {
		for _, it := range o.Items {
			if _, ok := titles[it.ProductID]; ok {
				continue
			}
			if p, err := m.products.Get(ctx, it.ProductID); err == nil {
				titles[it.ProductID] = p.Title
			}
		}
	}

	name := u.Username
	if name == "" {
		name = u.Email
	}
	body, err := RenderConfirmation(name, o, titles)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return m.mailer.Send(ctx, u.Email, fmt.Sprintf("Your order #%d", o.ID), body)
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }
