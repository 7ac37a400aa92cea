// Package logx is a thin structured-logging layer over zerolog.
//
// It exposes a value-type Logger whose zero value is a safe no-op, a small
// Field API for call-site attributes, and a Service that owns the output
// sinks (console, optional log file) and can swap level and outputs at
// runtime without invalidating loggers already handed out.
package logx
