package logger

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"github.com/cockroachdb/errors/errbase"
	"github.com/tickr-network/tickr/pkg/logger/slogx"
)

// errorAttrReplacer renders error attributes as their message string so the
// text handler prints them without the Go struct syntax.
func errorAttrReplacer(groups []string, attr slog.Attr) slog.Attr {
	if len(groups) == 0 && attr.Key == slogx.ErrorKey {
		if err, ok := attr.Value.Any().(error); ok && err != nil {
			return slog.String(attr.Key, err.Error())
		}
	}
	return attr
}

// middlewareErrorStackTrace attaches a verbose rendering and stack trace of
// any error attribute to the record. Enabled in debug mode only.
func middlewareErrorStackTrace() middleware {
	return func(next handleFunc) handleFunc {
		return func(ctx context.Context, rec slog.Record) error {
			rec.Attrs(func(attr slog.Attr) bool {
				if attr.Key == slogx.ErrorKey || attr.Key == "err" {
					err := attr.Value.Any()
					if err, ok := err.(error); ok && err != nil {
						rec.AddAttrs(slog.String(ErrorVerboseKey, fmt.Sprintf("%+v", err)))
						if x, ok := err.(errbase.StackTraceProvider); ok {
							rec.AddAttrs(slog.Any(ErrorStackTraceKey, traceLines(x.StackTrace())))
						}
					}
				}
				return false
			})

			return next(ctx, rec)
		}
	}
}

func traceLines(frames errbase.StackTrace) []string {
	traceLines := make([]string, 0, len(frames))

	// Iterate in reverse to skip uninteresting, consecutive runtime frames at
	// the bottom of the trace.
	skipping := true
	for i := len(frames) - 1; i >= 0; i-- {
		pc := uintptr(frames[i]) - 1
		fn := runtime.FuncForPC(pc)
		if fn == nil {
			traceLines = append(traceLines, "unknown")
			skipping = false
			continue
		}

		name := fn.Name()
		if skipping && strings.HasPrefix(name, "runtime.") {
			continue
		} else {
			skipping = false
		}

		filename, lineNr := fn.FileLine(pc)
		traceLines = append(traceLines, fmt.Sprintf("%s %s:%d", name, filename, lineNr))
	}

	return traceLines[:len(traceLines):len(traceLines)]
}
