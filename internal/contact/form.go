// Package contact holds the contact form state machine and the mailers that
// deliver its messages.
package contact

import (
	"errors"
	"fmt"
)

// Form field names as they appear in posted HTML forms.
const (
	FieldFirstName = "firstName"
	FieldLastName  = "lastName"
	FieldEmail     = "email"
	FieldSubject   = "subject"
	FieldMessage   = "message"
)

// DefaultSubject is used when the visitor leaves the subject empty.
const DefaultSubject = "Website Contact Form"

// ErrUnknownField is returned by SetField for a name that is not a form field.
var ErrUnknownField = errors.New("contact: unknown form field")

// FormData is the five-field record collected from the visitor.
type FormData struct {
	FirstName string `form:"firstName" json:"firstName"`
	LastName  string `form:"lastName" json:"lastName"`
	Email     string `form:"email" json:"email"`
	Subject   string `form:"subject" json:"subject"`
	Message   string `form:"message" json:"message"`
}

// set updates exactly one field by its wire name.
func (f *FormData) set(name, value string) error {
	switch name {
	case FieldFirstName:
		f.FirstName = value
	case FieldLastName:
		f.LastName = value
	case FieldEmail:
		f.Email = value
	case FieldSubject:
		f.Subject = value
	case FieldMessage:
		f.Message = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return nil
}

// withFields returns a copy of f with every named field replaced. If any name
// is unknown it returns the error and f is left as it was.
func (f FormData) withFields(values map[string]string) (FormData, error) {
	next := f
	for name, value := range values {
		if err := next.set(name, value); err != nil {
			return f, err
		}
	}
	return next, nil
}

// IsZero reports whether every field is empty.
func (f FormData) IsZero() bool {
	return f == FormData{}
}

// Validate reports whether the required fields are present. Whitespace counts
// as present and the email address is not checked for format.
func Validate(data FormData) bool {
	return data.FirstName != "" &&
		data.LastName != "" &&
		data.Email != "" &&
		data.Message != ""
}

// Message is the payload handed to a Sender.
type Message struct {
	FromName  string `json:"from_name"`
	FromEmail string `json:"from_email"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
	ToName    string `json:"to_name"`
}

// NewMessage builds the outgoing payload for data addressed to toName.
func NewMessage(data FormData, toName string) Message {
	subject := data.Subject
	if subject == "" {
		subject = DefaultSubject
	}
	return Message{
		FromName:  data.FirstName + " " + data.LastName,
		FromEmail: data.Email,
		Subject:   subject,
		Message:   data.Message,
		ToName:    toName,
	}
}
