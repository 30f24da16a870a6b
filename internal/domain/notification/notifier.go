package notification

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Confirmation is what the customer is told once a booking is confirmed.
type Confirmation struct {
	BookingID     string
	ServiceName   string
	Start         time.Time
	Location      *time.Location
	CustomerName  string
	CustomerPhone string
	CustomerEmail string
	DepositCents  int64
}

type Notifier interface {
	BookingConfirmed(ctx context.Context, c Confirmation) error
}

// ConfirmationMessage renders the customer-facing text. The start time is
// shown in the shop's timezone.
func ConfirmationMessage(c Confirmation) string {
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	when := c.Start.In(loc).Format("Mon Jan 2, 3:04 PM MST")

	name := strings.TrimSpace(c.CustomerName)
	if first, _, ok := strings.Cut(name, " "); ok {
		name = first
	}

	ref := c.BookingID
	if len(ref) > 8 {
		ref = ref[:8]
	}

	msg := fmt.Sprintf("Hi %s, your %s on %s is confirmed.", name, c.ServiceName, when)
	if c.DepositCents > 0 {
		msg += fmt.Sprintf(" Deposit received: $%d.%02d.", c.DepositCents/100, c.DepositCents%100)
	}
	return msg + " Ref " + strings.ToUpper(ref) + "."
}

// LogNotifier writes the message to the log instead of sending it.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogNotifier{log: log}
}

func (n *LogNotifier) BookingConfirmed(_ context.Context, c Confirmation) error {
	n.log.Info("booking confirmation",
		zap.String("booking_id", c.BookingID),
		zap.String("to", c.CustomerPhone),
		zap.String("message", ConfirmationMessage(c)),
	)
	return nil
}
