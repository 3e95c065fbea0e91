// Package notify is the boundary to the external push-notification
// collaborator. Delivery is best-effort: dispatch failures are logged and
// never abort the obligation or payment write that triggered them.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Ruben-Jim/shelton-springs-sub001/models"
)

const (
	TypePaymentVerified = "payment_verified"
	TypePaymentRejected = "payment_rejected"
	TypePaymentRecorded = "payment_recorded"
	TypeDuesNotice      = "dues_notice"
)

// Notification is the payload handed to the dispatcher.
type Notification struct {
	Recipients []uint            `json:"recipients"`
	Type       string            `json:"type"`
	Title      string            `json:"title"`
	Body       string            `json:"body"`
	Data       map[string]string `json:"data,omitempty"`
}

// Dispatcher delivers a notification and reports how many recipients it
// reached.
type Dispatcher interface {
	Dispatch(ctx context.Context, n Notification) (int, error)
}

// Async fires a notification on its own goroutine. The error channel of the
// dispatch is observed only here, for logging.
func Async(d Dispatcher, log *slog.Logger, n Notification) {
	if d == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		count, err := d.Dispatch(ctx, n)
		if err != nil {
			log.Error("notification dispatch failed", "type", n.Type, "error", err)
			return
		}
		log.Info("notification dispatched", "type", n.Type, "recipients", count)
	}()
}

// LogDispatcher writes notifications to the log only. Used in tests and when
// no push backend is configured.
type LogDispatcher struct {
	Log *slog.Logger
}

func (d *LogDispatcher) Dispatch(ctx context.Context, n Notification) (int, error) {
	d.Log.Info("notification", "type", n.Type, "title", n.Title, "body", n.Body, "recipients", len(n.Recipients))
	return len(n.Recipients), nil
}

// DBDispatcher persists every notification as an audit record before handing
// it to the wrapped delivery dispatcher.
type DBDispatcher struct {
	DB   *gorm.DB
	Next Dispatcher
}

func (d *DBDispatcher) Dispatch(ctx context.Context, n Notification) (int, error) {
	data, _ := json.Marshal(n.Data)
	record := models.Notification{
		DispatchID:     uuid.NewString(),
		Type:           n.Type,
		Title:          n.Title,
		Body:           n.Body,
		Data:           string(data),
		RecipientCount: len(n.Recipients),
	}
	if err := d.DB.WithContext(ctx).Create(&record).Error; err != nil {
		// Audit-trail failure does not block delivery.
		slog.Error("could not persist notification", "type", n.Type, "error", err)
	}
	if d.Next == nil {
		return len(n.Recipients), nil
	}
	return d.Next.Dispatch(ctx, n)
}
