// Package shell is the interactive menu front end. A session starts as a viewer and
// becomes admin after a successful login; the role is handed to every mutation.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"eventmgr/internal/auth"
	"eventmgr/internal/export"
	"eventmgr/internal/lib/logger/sl"
	"eventmgr/internal/models"
	"eventmgr/internal/reminder"
	"eventmgr/internal/roster"
	"eventmgr/internal/store"

	"github.com/fatih/color"
)

type EventStore interface {
	List() []models.Event
	ListByDay(date string) []models.Event
	Search(query string) []models.Event
	Find(ref string) (models.Event, error)
	Add(role auth.Role, e models.Event) (models.Event, error)
	Edit(role auth.Role, id string, changes models.EventChanges) (models.Event, error)
	Delete(role auth.Role, id string) (models.Event, error)
}

type Roster interface {
	Load() ([]models.Attendee, error)
	Add(a models.Attendee) (models.Attendee, error)
}

type Dispatcher interface {
	Window() time.Duration
	Send(ctx context.Context, events []models.Event, attendees []models.Attendee, now time.Time) (reminder.Report, error)
}

type Options struct {
	Store      EventStore
	Roster     Roster
	Gate       *auth.Gate
	Dispatcher Dispatcher
	Location   *time.Location
	Now        func() time.Time
	ExportPath string
}

type Shell struct {
	log  *slog.Logger
	in   *bufio.Scanner
	out  io.Writer
	opts Options
	role auth.Role

	ok   *color.Color
	fail *color.Color
	warn *color.Color
	head *color.Color
}

func New(log *slog.Logger, in io.Reader, out io.Writer, opts Options) *Shell {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.ExportPath == "" {
		opts.ExportPath = "exported_events.json"
	}

	return &Shell{
		log:  log.With(slog.String("component", "shell")),
		in:   bufio.NewScanner(in),
		out:  out,
		opts: opts,
		role: auth.Viewer,
		ok:   color.New(color.FgGreen),
		fail: color.New(color.FgRed),
		warn: color.New(color.FgYellow),
		head: color.New(color.Bold),
	}
}

// Role reports the current session role.
func (s *Shell) Role() auth.Role {
	return s.role
}

// Run loops over the menus until the operator exits, input ends or ctx is done.
func (s *Shell) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, "Welcome to the Smart Event Manager!")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var (
			done bool
			err  error
		)
		if s.role.IsAdmin() {
			err = s.adminMenu(ctx)
		} else {
			done, err = s.mainMenu()
		}

		if errors.Is(err, io.EOF) || done {
			fmt.Fprintln(s.out, "Goodbye!")
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (s *Shell) mainMenu() (bool, error) {
	s.head.Fprintln(s.out, "\n--- Main Menu ---")
	fmt.Fprintln(s.out, "1. View Today's Events")
	fmt.Fprintln(s.out, "2. Search Events")
	fmt.Fprintln(s.out, "3. Log in as Admin")
	fmt.Fprintln(s.out, "4. Exit")

	choice, err := s.ask("Enter your choice: ")
	if err != nil {
		return false, err
	}

	switch choice {
	case "1":
		s.viewToday()
	case "2":
		return false, s.search()
	case "3":
		return false, s.login()
	case "4":
		return true, nil
	default:
		s.fail.Fprintln(s.out, "Invalid choice.")
	}
	return false, nil
}

func (s *Shell) adminMenu(ctx context.Context) error {
	s.head.Fprintln(s.out, "\n--- Admin Menu ---")
	fmt.Fprintln(s.out, "1. Add Event")
	fmt.Fprintln(s.out, "2. Edit Event")
	fmt.Fprintln(s.out, "3. Delete Event")
	fmt.Fprintln(s.out, "4. View All Events")
	fmt.Fprintln(s.out, "5. View Events by Day")
	fmt.Fprintln(s.out, "6. Search Events")
	fmt.Fprintln(s.out, "7. Send Reminders")
	fmt.Fprintln(s.out, "8. Add Attendee")
	fmt.Fprintln(s.out, "9. Export All Events")
	fmt.Fprintln(s.out, "10. Log out")

	choice, err := s.ask("Enter your choice: ")
	if err != nil {
		return err
	}

	switch choice {
	case "1":
		return s.addEvent()
	case "2":
		return s.editEvent()
	case "3":
		return s.deleteEvent()
	case "4":
		s.printEvents("All Events", s.opts.Store.List(), "No events found.")
	case "5":
		return s.viewByDay()
	case "6":
		return s.search()
	case "7":
		s.sendReminders(ctx)
	case "8":
		return s.addAttendee()
	case "9":
		s.exportEvents()
	case "10":
		s.role = auth.Viewer
		s.ok.Fprintln(s.out, "Logged out.")
	default:
		s.fail.Fprintln(s.out, "Invalid choice.")
	}
	return nil
}

func (s *Shell) ask(prompt string) (string, error) {
	fmt.Fprint(s.out, prompt)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(s.in.Text()), nil
}

func (s *Shell) login() error {
	password, err := s.ask("Enter admin password: ")
	if err != nil {
		return err
	}

	role, err := s.opts.Gate.Login(password)
	if err != nil {
		s.log.Warn("admin login rejected")
		s.fail.Fprintln(s.out, "Incorrect password.")
		return nil
	}

	s.role = role
	s.log.Info("admin logged in")
	s.ok.Fprintln(s.out, "Logged in as Admin.")
	return nil
}

func (s *Shell) today() string {
	return s.opts.Now().In(s.opts.Location).Format(models.DateLayout)
}

func (s *Shell) viewToday() {
	day := s.today()
	s.printEvents("Events for "+day, s.opts.Store.ListByDay(day), "No events found for "+day+".")
}

func (s *Shell) viewByDay() error {
	day, err := s.ask("Enter date to view (YYYY-MM-DD): ")
	if err != nil {
		return err
	}
	if _, err := time.Parse(models.DateLayout, day); err != nil {
		s.fail.Fprintln(s.out, "Invalid date format. Please use YYYY-MM-DD.")
		return nil
	}
	s.printEvents("Events for "+day, s.opts.Store.ListByDay(day), "No events found for "+day+".")
	return nil
}

func (s *Shell) search() error {
	keyword, err := s.ask("Enter a keyword to search: ")
	if err != nil {
		return err
	}
	if keyword == "" {
		s.fail.Fprintln(s.out, "Search keyword cannot be empty.")
		return nil
	}
	s.printEvents(fmt.Sprintf("Search Results for '%s'", keyword), s.opts.Store.Search(keyword),
		fmt.Sprintf("No events found for keyword: '%s'.", keyword))
	return nil
}

func (s *Shell) printEvents(title string, events []models.Event, empty string) {
	if len(events) == 0 {
		fmt.Fprintln(s.out, empty)
		return
	}
	s.head.Fprintf(s.out, "\n--- %s ---\n", title)
	for _, e := range events {
		fmt.Fprintln(s.out, e.String())
	}
}

func (s *Shell) addEvent() error {
	var e models.Event

	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Enter event name: ", &e.Name},
		{"Enter date (YYYY-MM-DD): ", &e.Date},
		{"Enter start time (HH:MM): ", &e.Start},
		{"Enter end time (HH:MM): ", &e.End},
		{"Enter event type: ", &e.Type},
		{"Enter location (optional): ", &e.Location},
		{"Enter description (optional): ", &e.Description},
	}
	for _, f := range fields {
		v, err := s.ask(f.prompt)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	added, err := s.opts.Store.Add(s.role, e)
	if err != nil {
		s.printError(err)
		return nil
	}

	s.ok.Fprintf(s.out, "Event added successfully! [%s]\n", models.ShortID(added.ID))
	return nil
}

func (s *Shell) editEvent() error {
	ref, err := s.ask("Enter event ID or name to edit: ")
	if err != nil {
		return err
	}

	current, err := s.opts.Store.Find(ref)
	if err != nil {
		s.printError(err)
		return nil
	}

	s.head.Fprintln(s.out, "--- Editing Event ---")

	var changes models.EventChanges
	fields := []struct {
		label   string
		current string
		dst     **string
	}{
		{"name", current.Name, &changes.Name},
		{"date (YYYY-MM-DD)", current.Date, &changes.Date},
		{"start time (HH:MM)", current.Start, &changes.Start},
		{"end time (HH:MM)", current.End, &changes.End},
		{"type", current.Type, &changes.Type},
		{"location", current.Location, &changes.Location},
		{"description", current.Description, &changes.Description},
	}
	for _, f := range fields {
		v, err := s.ask(fmt.Sprintf("Enter new %s (current: %s): ", f.label, f.current))
		if err != nil {
			return err
		}
		if v != "" {
			*f.dst = &v
		}
	}

	if _, err := s.opts.Store.Edit(s.role, current.ID, changes); err != nil {
		if errors.Is(err, store.ErrConflict) {
			s.warn.Fprintln(s.out, "Edit would cause a conflict. Changes not saved.")
		}
		s.printError(err)
		return nil
	}

	s.ok.Fprintln(s.out, "Event edited successfully!")
	return nil
}

func (s *Shell) deleteEvent() error {
	ref, err := s.ask("Enter event ID or name to delete: ")
	if err != nil {
		return err
	}

	target, err := s.opts.Store.Find(ref)
	if err != nil {
		s.printError(err)
		return nil
	}

	removed, err := s.opts.Store.Delete(s.role, target.ID)
	if err != nil {
		s.printError(err)
		return nil
	}

	s.ok.Fprintf(s.out, "Event '%s' deleted successfully.\n", removed.Name)
	return nil
}

func (s *Shell) sendReminders(ctx context.Context) {
	s.head.Fprintln(s.out, "--- Sending Reminders ---")

	attendees, err := s.opts.Roster.Load()
	if err != nil {
		s.printError(err)
		return
	}
	if len(attendees) == 0 {
		s.fail.Fprintln(s.out, "No valid email addresses were found on the roster.")
		return
	}

	report, err := s.opts.Dispatcher.Send(ctx, s.opts.Store.List(), attendees, s.opts.Now())
	if err != nil {
		s.printError(err)
		return
	}
	if len(report.Events) == 0 {
		fmt.Fprintf(s.out, "No events starting in the next %s.\n", s.opts.Dispatcher.Window())
		return
	}

	for _, f := range report.Failures {
		s.fail.Fprintf(s.out, "Failed: %v\n", f)
	}
	s.ok.Fprintf(s.out, "Reminders for %d events sent to %d attendees (%d messages).\n",
		len(report.Events), len(attendees), report.Sent)
}

func (s *Shell) addAttendee() error {
	email, err := s.ask("Enter the new attendee's email: ")
	if err != nil {
		return err
	}
	name, err := s.ask("Enter the new attendee's name (optional): ")
	if err != nil {
		return err
	}

	added, err := s.opts.Roster.Add(models.Attendee{Name: name, Email: email})
	if err != nil {
		s.printError(err)
		return nil
	}

	s.ok.Fprintf(s.out, "Email '%s' added to attendees list.\n", added.Email)
	return nil
}

func (s *Shell) exportEvents() {
	events := s.opts.Store.List()
	if len(events) == 0 {
		s.fail.Fprintln(s.out, "No events to export.")
		return
	}

	f, err := export.ParseFormat("", s.opts.ExportPath)
	if err != nil {
		s.printError(err)
		return
	}
	if err := export.WriteFile(s.opts.ExportPath, f, events, s.opts.Location, s.opts.Now()); err != nil {
		s.printError(err)
		return
	}

	s.ok.Fprintf(s.out, "All events have been successfully exported to %s.\n", s.opts.ExportPath)
}

func (s *Shell) printError(err error) {
	var conflict *store.ConflictError

	switch {
	case errors.As(err, &conflict):
		s.warn.Fprintf(s.out, "Conflict detected! This event overlaps with %s\n", conflict.Existing.String())
		if len(conflict.Suggestions) > 0 {
			fmt.Fprintln(s.out, "Suggested available time slots:")
			for _, slot := range conflict.Suggestions {
				fmt.Fprintf(s.out, "   - %s\n", slot)
			}
		}
	case errors.Is(err, models.ErrValidation):
		var vErr *models.ValidationError
		if errors.As(err, &vErr) {
			s.fail.Fprintf(s.out, "Error: %s.\n", vErr.Error())
			return
		}
		s.fail.Fprintf(s.out, "Error: %v\n", err)
	case errors.Is(err, store.ErrNotFound):
		s.fail.Fprintln(s.out, "Event not found.")
	case errors.Is(err, store.ErrAmbiguous):
		s.fail.Fprintln(s.out, "More than one event matches; use the event ID.")
	case errors.Is(err, store.ErrUnauthorized):
		s.fail.Fprintln(s.out, "Admin login required.")
	case errors.Is(err, roster.ErrDuplicate):
		s.fail.Fprintln(s.out, "That email is already on the attendees list.")
	default:
		s.log.Error("operation failed", sl.Err(err))
		s.fail.Fprintf(s.out, "Error: %v\n", err)
	}
}
