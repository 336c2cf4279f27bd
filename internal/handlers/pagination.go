package handlers

import (
	"fmt"
	"strconv"
)

const maxPageSize = 100

func parsePaginationParams(pageStr, limitStr string) (int64, int64, error) {
	page := int64(1)
	limit := int64(20)

	if pageStr != "" {
		p, err := strconv.ParseInt(pageStr, 10, 64)
		if err != nil || p < 1 {
			return 0, 0, fmt.Errorf("invalid page: %q", pageStr)
		}
		page = p
	}

	if limitStr != "" {
		l, err := strconv.ParseInt(limitStr, 10, 64)
		if err != nil || l < 1 || l > maxPageSize {
			return 0, 0, fmt.Errorf("invalid limit: %q", limitStr)
		}
		limit = l
	}

	return page, limit, nil
}
