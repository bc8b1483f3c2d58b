// Package service implements the business rules on top of the repositories:
// input validation, the ownership policy, cascade orchestration and blob
// cleanup. Failures surface as wrapped domain sentinel errors.
package service

import "io"

// Upload is a media attachment handed over by the transport layer.
type Upload struct {
	Name        string
	ContentType string
	Reader      io.Reader
}

// clampPage normalizes limit/offset query values.
func clampPage(limit, offset, def, max int) (int, int) {
	if limit <= 0 || limit > max {
		limit = def
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
