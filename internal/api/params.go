package api

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
)

// pageParams reads limit/offset query parameters. Missing or malformed
// values come back as zero; the services clamp to their own defaults.
func pageParams(r *http.Request) (limit, offset int) {
	q := r.URL.Query()
	limit, _ = strconv.Atoi(q.Get("limit"))
	offset, _ = strconv.Atoi(q.Get("offset"))
	return limit, offset
}

// optionalUUID parses a UUID string that may be empty.
func optionalUUID(s string) (*uuid.UUID, error) {
	if s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
