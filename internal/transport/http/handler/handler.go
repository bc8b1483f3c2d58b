// Package handler holds the per-entity HTTP handlers. Each handler exposes a
// Mount method and gets wired onto the /api/v1 group by the router.
package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/asafto/kdog-server/internal/domain"
	"github.com/asafto/kdog-server/internal/service"
)

type page[T any] struct {
	Total int64 `json:"total"`
	Items []T   `json:"items"`
}

func newPage[T any](items []T, total int64) page[T] {
	if items == nil {
		items = []T{}
	}
	return page[T]{Total: total, Items: items}
}

func bindErr(err error) error {
	// an oversized body is not a validation failure; keep the error
	// unwrapped so the response layer can map it to 413
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrValidation, err)
}

// pageQuery reads ?limit= and ?offset=; zero values let the service apply
// its defaults.
func pageQuery(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.Query("limit"))
	offset, _ = strconv.Atoi(c.Query("offset"))
	return limit, offset
}

// formUpload extracts the optional "image" part of a multipart request. The
// returned closer is a no-op when no file was attached.
func formUpload(c *gin.Context) (*service.Upload, func(), error) {
	noop := func() {}
	fh, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, noop, nil
		}
		return nil, noop, bindErr(err)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, noop, bindErr(err)
	}
	return &service.Upload{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Reader:      f,
	}, func() { _ = f.Close() }, nil
}
