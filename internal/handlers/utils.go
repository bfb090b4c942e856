package handlers

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// OperatorSubjectContextKey is where the auth middleware stores the token subject
const OperatorSubjectContextKey = "operator_subject"

// getOperatorFromContext returns the authenticated operator, or "anonymous"
func getOperatorFromContext(c echo.Context) string {
	subject, ok := c.Get(OperatorSubjectContextKey).(string)
	if !ok || subject == "" {
		return "anonymous"
	}
	return subject
}

// getIntParam reads an integer query parameter. ok is false when the
// parameter is present but not a number.
func getIntParam(c echo.Context, name string, defaultValue int) (value int, ok bool) {
	param := c.QueryParam(name)
	if param == "" {
		return defaultValue, true
	}

	value, err := strconv.Atoi(param)
	if err != nil {
		return defaultValue, false
	}

	return value, true
}

func getClientIP(c echo.Context) string {
	xff := c.Request().Header.Get("X-Forwarded-For")
	if xff != "" {
		ips := strings.Split(xff, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	xri := c.Request().Header.Get("X-Real-IP")
	if xri != "" {
		return xri
	}

	return c.Request().RemoteAddr
}

// maxRetentionDays is the largest day count that still fits a time.Duration.
const maxRetentionDays = int64(math.MaxInt64 / int64(24*time.Hour))

// parseRetention parses a retention period such as "30m", "24h" or "7d".
// Day suffixes are accepted on top of time.ParseDuration units. Zero is
// allowed and selects every record.
func parseRetention(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("duration is empty")
	}

	var d time.Duration
	if days, found := strings.CutSuffix(s, "d"); found {
		n, err := strconv.ParseInt(days, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid day count %q", s)
		}
		if n > maxRetentionDays {
			return 0, fmt.Errorf("day count %d exceeds %d", n, maxRetentionDays)
		}
		d = time.Duration(n) * 24 * time.Hour
	} else {
		var err error
		d, err = time.ParseDuration(s)
		if err != nil {
			return 0, err
		}
	}

	if d < 0 {
		return 0, fmt.Errorf("duration must not be negative")
	}
	return d, nil
}
