package models

// Attendee is one row of the roster. Every attendee receives every reminder.
type Attendee struct {
	Name  string `json:"name"`
	Email string `json:"email" validate:"required,email"`
}
