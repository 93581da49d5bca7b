// Package log provides a small leveled logging interface for graphflow.
//
// Five levels are supported, in increasing severity: LogLevelDebug,
// LogLevelInfo, LogLevelWarn, LogLevelError, and LogLevelNone (disables
// output). Messages below the configured level are filtered out.
//
// # Example Usage
//
//	logger := log.NewDefaultLogger(log.LogLevelInfo)
//	logger.Info("session %s created", sessionID)
//	logger.Error("failed to persist session: %v", err)
//
// The engine logs through the package-level logger; swap it to change
// destination or verbosity globally:
//
//	log.SetLogLevel(log.LogLevelDebug)
//	log.SetDefaultLogger(&log.NoOpLogger{}) // silence everything
//
// # golog Backend
//
// For users of github.com/kataras/golog there is a minimal wrapper:
//
//	glogger := golog.New()
//	glogger.SetPrefix("[myapp] ")
//	log.SetDefaultLogger(log.NewGologLogger(glogger))
//
// Any type implementing the four-method Logger interface can be plugged in
// the same way.
package log
