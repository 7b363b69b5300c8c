package setup

import "slices"

// Names of the installer form fields an Error can point at.
const (
	FieldHost = "dbHost"
	FieldName = "dbName"
	FieldUser = "dbUser"
	FieldPass = "dbPass"
)

// Error is returned when the database can't be provisioned.
// Fields lists the form fields the operator should correct, and may be empty.
type Error struct {
	Message string   `json:"message"`
	Fields  []string `json:"errors"`

	// State is the last state the provisioning reached before failing.
	State State `json:"-"`
	// Err is the underlying failure, kept for logs.
	Err error `json:"-"`
}

func newError(msg string, err error, fields ...string) *Error {
	if fields == nil {
		fields = []string{}
	}
	return &Error{Message: msg, Fields: fields, Err: err}
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HasField reports whether the error points at the given form field.
func (e *Error) HasField(field string) bool {
	return slices.Contains(e.Fields, field)
}

// Result is returned when the database has been provisioned.
type Result struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}
