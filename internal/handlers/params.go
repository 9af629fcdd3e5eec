package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
)

// paramID reads a positive numeric path parameter, writing a 400 when it is
// not one.
func paramID(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		httperr.BadRequest(c, "invalid_"+name, "Invalid "+name+".")
		return 0, false
	}
	return uint(v), true
}

func queryID(c *gin.Context, name string) (*uint, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		httperr.BadRequest(c, "invalid_"+name, "Invalid "+name+".")
		return nil, false
	}
	id := uint(v)
	return &id, true
}

// queryIDs parses a comma separated id list such as "1,2,3".
func queryIDs(c *gin.Context, name string) ([]uint, bool) {
	var out []uint
	for _, part := range strings.Split(c.Query(name), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseUint(part, 10, 64)
		if err != nil || v == 0 {
			httperr.BadRequest(c, "invalid_"+name, "Invalid "+name+".")
			return nil, false
		}
		out = append(out, uint(v))
	}
	return out, true
}
