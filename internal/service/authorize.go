package service

import (
	"context"

	"taskboard/internal/authz"

	"github.com/sirupsen/logrus"
)

// DeniedError is returned when the authorization engine rejects a request.
// It unwraps to the client-facing sentinel for the deny reason.
type DeniedError struct {
	Action authz.Action
	Reason authz.DenyReason
	err    error
}

func (e *DeniedError) Error() string {
	return e.err.Error()
}

func (e *DeniedError) Unwrap() error {
	return e.err
}

// NewDeniedError builds the error reported when action is denied for reason.
func NewDeniedError(action authz.Action, reason authz.DenyReason) *DeniedError {
	return &DeniedError{Action: action, Reason: reason, err: reason.Err()}
}

// denied converts a denying decision into an error and logs it.
func denied(log logrus.FieldLogger, actor authz.Actor, action authz.Action, d authz.Decision) error {
	log.WithFields(logrus.Fields{
		"action":  action,
		"reason":  d.Reason,
		"user_id": actor.ID.Hex(),
		"role":    actor.Role,
	}).Info("authorization denied")

	return &DeniedError{Action: action, Reason: d.Reason, err: d.Err()}
}

// authorize runs req through the engine and returns the allowing decision,
// or a *DeniedError.
func authorize(ctx context.Context, engine *authz.Engine, log logrus.FieldLogger, req authz.AuthorizationRequest) (authz.Decision, error) {
	d, err := engine.Authorize(ctx, req)
	if err != nil {
		return d, err
	}
	if !d.Allowed {
		return d, denied(log, req.Actor, req.Action, d)
	}
	return d, nil
}

func loggerOrDefault(log logrus.FieldLogger) logrus.FieldLogger {
	if log == nil {
		return logrus.StandardLogger()
	}
	return log
}
