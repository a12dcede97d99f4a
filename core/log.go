package core

// Logger is the application-wide logging contract.
// Implementations may inspect args for well-known types (e.g. a user value
// to attach the acting person to a report).
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
