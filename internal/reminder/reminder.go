// Package reminder selects upcoming events and hands one message per attendee to a
// Notifier. Dispatch is best-effort: a failed delivery is logged and recorded, and the
// remaining recipients and events are still processed.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"eventmgr/internal/lib/logger/sl"
	"eventmgr/internal/models"
	"eventmgr/internal/schedule"
)

// Notifier delivers, or pretends to deliver, one message.
type Notifier interface {
	Notify(ctx context.Context, recipient, subject, body string) error
}

// DeliveryError records a failed (event, attendee) pair.
type DeliveryError struct {
	EventID   string
	Recipient string
	Err       error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("deliver %s to %s: %v", models.ShortID(e.EventID), e.Recipient, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// Report summarizes one dispatch run.
type Report struct {
	Events   []models.Event
	Sent     int
	Failures []*DeliveryError
}

type Dispatcher struct {
	log      *slog.Logger
	notifier Notifier
	window   time.Duration
	loc      *time.Location
}

func NewDispatcher(log *slog.Logger, notifier Notifier, window time.Duration, loc *time.Location) *Dispatcher {
	if loc == nil {
		loc = time.Local
	}
	return &Dispatcher{
		log:      log.With(slog.String("component", "reminder")),
		notifier: notifier,
		window:   window,
		loc:      loc,
	}
}

func (d *Dispatcher) Window() time.Duration {
	return d.window
}

// Send notifies every attendee about each event starting within the window after now.
// Nothing is remembered between calls, so a second run re-sends the same reminders.
func (d *Dispatcher) Send(ctx context.Context, events []models.Event, attendees []models.Attendee, now time.Time) (Report, error) {
	const op = "reminder.Send"

	log := d.log.With(slog.String("op", op))

	upcoming := schedule.SelectUpcoming(events, now.In(d.loc), d.window, d.loc)
	report := Report{Events: upcoming}

	log.Info("reminder run",
		slog.Int("events", len(upcoming)),
		slog.Int("attendees", len(attendees)),
		slog.Duration("window", d.window),
	)

	for _, e := range upcoming {
		subject, body := Render(e)
		for _, a := range attendees {
			if err := ctx.Err(); err != nil {
				return report, fmt.Errorf("%s: %w", op, err)
			}

			if err := d.notifier.Notify(ctx, a.Email, subject, body); err != nil {
				dErr := &DeliveryError{EventID: e.ID, Recipient: a.Email, Err: err}
				log.Error("failed to deliver reminder",
					slog.String("event", e.ID),
					slog.String("recipient", a.Email),
					sl.Err(err),
				)
				report.Failures = append(report.Failures, dErr)
				continue
			}
			report.Sent++
		}
	}

	return report, nil
}

// Render builds the subject and body of a reminder for e.
func Render(e models.Event) (subject, body string) {
	location := e.Location
	if location == "" {
		location = "Not specified"
	}

	subject = "Reminder: Upcoming Event - " + e.Name

	var b strings.Builder
	b.WriteString("Hello,\n\n")
	fmt.Fprintf(&b, "This is a friendly reminder for the upcoming event: %s\n\n", e.Name)
	fmt.Fprintf(&b, "Date: %s\n", e.Date)
	fmt.Fprintf(&b, "Time: %s-%s\n", e.Start, e.End)
	fmt.Fprintf(&b, "Location: %s\n", location)
	if e.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", e.Description)
	}
	b.WriteString("\nWe look forward to seeing you there!\n")

	return subject, b.String()
}
