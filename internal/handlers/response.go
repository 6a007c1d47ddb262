package handlers

import (
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rolejet/RoleJet/internal/common"
)

// writeError answers with {"message": ...} and the status of the error code.
// Anything that is not a *common.Error degrades to a generic 500.
func writeError(c *gin.Context, log *slog.Logger, err error) {
	var appErr *common.Error
	if !errors.As(err, &appErr) {
		appErr = common.NewError(common.CodeInternal, "Internal server error", err)
	}
	status := common.HTTPStatus(appErr.Code)
	message := appErr.Message
	if status >= http.StatusInternalServerError {
		log.Error("request failed",
			slog.String("method", c.Request.Method),
			slog.String("route", c.FullPath()),
			slog.Int("status", status),
			slog.Any("error", err),
		)
		if appErr.Code == common.CodeInternal {
			message = "Internal server error"
		}
	}
	c.AbortWithStatusJSON(status, gin.H{"message": message})
}

func badRequest(c *gin.Context, log *slog.Logger, err error) {
	writeError(c, log, common.NewError(common.CodeValidation, "Invalid request body", err))
}

// formFile returns the first uploaded file among fields, or nil.
func formFile(c *gin.Context, fields ...string) *multipart.FileHeader {
	for _, field := range fields {
		if fh, err := c.FormFile(field); err == nil {
			return fh
		}
	}
	return nil
}

func setCookie(c *gin.Context, cookie *http.Cookie) {
	http.SetCookie(c.Writer, cookie)
}
