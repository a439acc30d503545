package bootstrap

import "context"

// AuditLog is an operational event worth keeping outside the request
// logs, e.g. server lifecycle changes.
type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
