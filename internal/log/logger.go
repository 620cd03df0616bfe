// Package log provides a narrow logger interface so the core never depends
// on a concrete logging library directly, and never reads a package-level
// logger global. cmd/ssoauthd builds one at startup and is its only user;
// the core packages take no Logger and do not log.
package log

// Logger serves as an adapter interface for logger libraries, so the core
// can be wired to whatever the enclosing process logs with.
type Logger interface {
	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})

	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}
