package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// paramID parses the :id path parameter as a positive integer.
func paramID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}
