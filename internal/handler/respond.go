// Package handler contains HTTP handlers for the API.
package handler

import (
	"errors"
	"net/http"

	"taskboard/internal/authz"
	apperrors "taskboard/internal/errors"
	"taskboard/internal/logger"
	"taskboard/internal/middleware"
	"taskboard/internal/service"
	"taskboard/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var kindStatus = map[apperrors.Kind]int{
	apperrors.KindUnauthenticated:  http.StatusUnauthorized,
	apperrors.KindForbidden:        http.StatusForbidden,
	apperrors.KindInvalidReference: http.StatusBadRequest,
	apperrors.KindNotFound:         http.StatusNotFound,
	apperrors.KindConflict:         http.StatusConflict,
	apperrors.KindBadRequest:       http.StatusBadRequest,
}

// respondError writes err using the status of its kind. Denials carry their
// reason as the response code. Unclassified errors are reported and hidden
// behind a generic message.
func respondError(c *gin.Context, log logrus.FieldLogger, err error) {
	status, ok := kindStatus[apperrors.KindOf(err)]
	if !ok {
		if log == nil {
			log = logrus.StandardLogger()
		}
		logger.CaptureError(log, "request", err, map[string]interface{}{
			"request_id": middleware.GetRequestID(c),
			"method":     c.Request.Method,
			"path":       c.FullPath(),
		})
		response.InternalError(c)
		return
	}

	var denied *service.DeniedError
	if errors.As(err, &denied) {
		response.ErrorWithCode(c, status, string(denied.Reason), err.Error())
		return
	}
	response.Error(c, status, err.Error())
}

// actorFrom returns the authenticated actor, writing a 401 when there is none.
func actorFrom(c *gin.Context) (authz.Actor, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		response.Unauthorized(c, "user not authenticated")
		return authz.Actor{}, false
	}
	return actor, true
}

// pathID parses the named path parameter as an ObjectID, writing a 400 when
// it is malformed.
func pathID(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		response.BadRequest(c, "invalid "+name+" format")
		return primitive.NilObjectID, false
	}
	return id, true
}
