// Package services holds the RoleJet use cases. Services depend on the
// repository interfaces and return *common.Error values that handlers turn
// into HTTP responses.
package services

import (
	"errors"
	"mime/multipart"
	"strings"

	"github.com/rolejet/RoleJet/internal/common"
	"github.com/rolejet/RoleJet/internal/repository"
	"github.com/rolejet/RoleJet/internal/uploads"
)

// FileStore persists validated uploads and returns their public path.
type FileStore interface {
	Save(fh *multipart.FileHeader, kind uploads.Kind) (string, error)
	Remove(publicPath string) error
}

func storeError(err error, notFoundMessage string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return common.NewError(common.CodeNotFound, notFoundMessage, err)
	case errors.Is(err, repository.ErrDuplicate):
		return common.NewError(common.CodeConflict, "Record already exists", err)
	default:
		return internal(err)
	}
}

func internal(err error) error {
	return common.NewError(common.CodeInternal, "Internal server error", err)
}

func missing(message string) error {
	return common.NewError(common.CodeValidation, message, common.ErrMissingFields)
}

// optional returns nil for blank input so patches leave the field alone.
func optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
