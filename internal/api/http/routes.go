package httpapi

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-advisory/internal/advisory"
)

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *advisory.Service) {
	v1 := app.Group("/api/v1")

	v1.Get("/advisories", func(c *fiber.Ctx) error {
		decision := service.Admit(callerKey(c))
		if !decision.Allowed {
			retryAfter := secondsUntil(decision.ResetAt)

			setRateLimitHeaders(c, service.RateLimit(), 0, decision.ResetAt)
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfter))
			c.Set(fiber.HeaderCacheControl, "no-store")
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":             "rate limit exceeded",
				"retryAfterSeconds": retryAfter,
			})
		}

		payload, age, cached, err := service.Advisories(c.UserContext())
		if err != nil {
			status := fiber.StatusBadGateway
			if errors.Is(err, advisory.ErrNotConfigured) {
				status = fiber.StatusServiceUnavailable
			}

			// Error outcomes must never be cached downstream.
			c.Set(fiber.HeaderCacheControl, "no-store")
			return c.Status(status).JSON(errorBody{
				Error:            err.Error(),
				Advisories:       []advisory.Advisory{},
				Forecasts:        []advisory.ForecastBundle{},
				GeneratedAt:      time.Now().UTC(),
				LocationsChecked: 0,
			})
		}

		setRateLimitHeaders(c, service.RateLimit(), decision.Remaining, decision.ResetAt)

		resp := response{Payload: payload, Cached: cached}
		if cached {
			secs := int(age.Seconds())
			resp.CacheAgeSeconds = &secs
		}
		return c.JSON(resp)
	})
}

// response is the success envelope: the assembled payload plus cache
// freshness metadata.
type response struct {
	*advisory.Payload
	Cached          bool `json:"cached"`
	CacheAgeSeconds *int `json:"cacheAgeSeconds,omitempty"`
}

// errorBody keeps error responses well-formed for the dashboard: same
// shape as a success, with empty collections.
type errorBody struct {
	Error            string                    `json:"error"`
	Advisories       []advisory.Advisory       `json:"advisories"`
	Forecasts        []advisory.ForecastBundle `json:"forecasts"`
	GeneratedAt      time.Time                 `json:"generatedAt"`
	LocationsChecked int                       `json:"locationsChecked"`
}

// callerKey partitions rate-limit state per client: the first
// X-Forwarded-For entry wins, falling back to the connection address.
func callerKey(c *fiber.Ctx) string {
	if fwd := c.Get(fiber.HeaderXForwardedFor); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	return c.IP()
}

func setRateLimitHeaders(c *fiber.Ctx, limit, remaining int, resetAt time.Time) {
	c.Set("X-RateLimit-Limit", strconv.Itoa(limit))
	c.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
	c.Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))
}

func secondsUntil(t time.Time) int {
	secs := int(math.Ceil(time.Until(t).Seconds()))
	if secs < 0 {
		secs = 0
	}
	return secs
}
