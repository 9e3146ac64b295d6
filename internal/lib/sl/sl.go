// Package sl holds small slog helpers.
package sl

import "log/slog"

// Err returns the attribute under which errors are logged.
//
//	log.Error("failed to create bill", sl.Err(err))
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}

// Op returns the attribute naming the operation a log line belongs to.
func Op(op string) slog.Attr {
	return slog.String("op", op)
}
