package utils

import (
	"context"

	"go.uber.org/zap"

	"hr-org-system/pkg/contextkeys"
	apperrors "hr-org-system/pkg/errors"
)

func GetSubjectFromCtx(ctx context.Context) (string, error) {
	subject, ok := ctx.Value(contextkeys.SubjectKey).(string)
	if !ok || subject == "" {
		return "", apperrors.ErrUnauthorized
	}
	return subject, nil
}

// LoggerFromCtx returns the request-scoped logger or the fallback.
func LoggerFromCtx(ctx context.Context, fallback *zap.Logger) *zap.Logger {
	if l, ok := ctx.Value(contextkeys.LoggerKey).(*zap.Logger); ok && l != nil {
		return l
	}
	return fallback
}
