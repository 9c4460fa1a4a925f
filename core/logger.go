package core

// Logger is the application wide logging port.
// Args may carry errors, maps of extra data or the acting user (see services/logger).
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// Person identifies the acting user in log entries.
type Person struct {
	ID    string
	Name  string
	Email string
}
