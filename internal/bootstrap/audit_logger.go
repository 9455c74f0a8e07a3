package bootstrap

import "context"

type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

// AuditLogger records operational events that should survive in an audit
// trail, independent of the application log level.
type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
