package core

// Logger is the app-wide logging contract. Implementations may forward
// records to an error tracker; a core.Account passed in args identifies
// the acting user.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
