package utils

import (
	"math"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// ParseID parses a positive numeric path parameter.
func ParseID(s string) (uint, bool) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// Pagination reads page and limit query parameters, falling back to page 1
// and DefaultPageLimit on missing or invalid values.
func Pagination(c *fiber.Ctx) (page, limit int) {
	page = c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit = c.QueryInt("limit", DefaultPageLimit)
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit
}

func TotalPages(count int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(count) / float64(limit)))
}

// NormalizeEmail lowercases and trims an address before it is stored or looked up.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
