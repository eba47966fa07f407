package api_context

import "context"

type ctxKey string

const (
	JobNameKey    ctxKey = "jobName"
	AuthUserIDKey ctxKey = "authUserID"
	AuthRolesKey  ctxKey = "authRoles"
)

func JobNameFromContext(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(JobNameKey).(string)
	return name, ok && name != ""
}

func AuthUserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(AuthUserIDKey).(string)
	return id, ok && id != ""
}

func AuthRolesFromContext(ctx context.Context) ([]string, bool) {
	roles, ok := ctx.Value(AuthRolesKey).([]string)
	return roles, ok
}
