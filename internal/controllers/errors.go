package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"sevasetu/internal/auth"
	"sevasetu/internal/middleware"
	"sevasetu/internal/services"
)

var kindStatus = map[services.Kind]int{
	services.KindValidation:         http.StatusBadRequest,
	services.KindMissingToken:       http.StatusUnauthorized,
	services.KindInvalidToken:       http.StatusUnauthorized,
	services.KindInvalidCredentials: http.StatusUnauthorized,
	services.KindForbidden:          http.StatusForbidden,
	services.KindNotFound:           http.StatusNotFound,
	services.KindConflict:           http.StatusConflict,
	services.KindRenderFailure:      http.StatusInternalServerError,
	services.KindInternal:           http.StatusInternalServerError,
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind services.Kind) int {
	if status, ok := kindStatus[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// respondError writes err as {"error", "code"}. Internal causes are logged
// and never sent to the client.
func respondError(c *gin.Context, err error) {
	kind := services.KindOf(err)
	status := StatusFor(kind)

	msg := "internal server error"
	var se *services.Error
	if errors.As(err, &se) {
		msg = se.Message
	}

	if status >= http.StatusInternalServerError {
		logrus.WithError(err).WithFields(logrus.Fields{
			"request_id": middleware.GetRequestID(c),
			"path":       c.FullPath(),
			"code":       kind,
		}).Error("request failed")
	}

	c.AbortWithStatusJSON(status, gin.H{"error": msg, "code": kind})
}

func respondBindError(c *gin.Context, err error) {
	respondError(c, &services.Error{Kind: services.KindValidation, Message: bindMessage(err)})
}

// bindOptionalJSON binds a body whose fields are all optional, so an empty
// body is accepted.
func bindOptionalJSON(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func caller(c *gin.Context) (auth.Identity, bool) {
	id, ok := middleware.Identity(c)
	if !ok {
		respondError(c, &services.Error{Kind: services.KindMissingToken, Message: "Token is missing"})
		return id, false
	}
	return id, true
}
