// controllers/helpers.go
package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// statusForError maps service sentinel errors onto HTTP statuses: the
// *_not_found family is 404, invalid_* validation sentinels are 400,
// everything else is a 500.
func statusForError(err error) int {
	msg := err.Error()
	if strings.HasSuffix(msg, "_not_found") {
		return http.StatusNotFound
	}
	if strings.HasPrefix(msg, "invalid_") || strings.HasPrefix(msg, "validation") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func paramUint(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(v), true
}

func queryUint(c *gin.Context, name string) uint {
	v, err := strconv.ParseUint(c.Query(name), 10, 32)
	if err != nil {
		return 0
	}
	return uint(v)
}
