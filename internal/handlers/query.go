package handlers

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/reboot-golang/internal/store"
)

// parseLimit reads ?limit=. Anything that is not a non-negative integer means
// "no limit".
func parseLimit(c *gin.Context) int64 {
	n, err := strconv.ParseInt(c.Query("limit"), 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// productFilter intersects every supplied query dimension:
// ?email= (seller), ?status=, ?sponsored= and ?limit=.
func productFilter(c *gin.Context) (store.ProductFilter, error) {
	f := store.ProductFilter{
		SellerEmail: c.Query("email"),
		Status:      c.Query("status"),
		Limit:       parseLimit(c),
	}
	if raw := c.Query("sponsored"); raw != "" {
		sponsored, err := strconv.ParseBool(raw)
		if err != nil {
			return f, fmt.Errorf("sponsored must be true or false, got %q", raw)
		}
		f.Sponsored = &sponsored
	}
	return f, nil
}
