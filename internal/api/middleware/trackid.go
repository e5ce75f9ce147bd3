package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const trackIDKey = "track_id"

// TrackID assigns every request an id, echoed in the response header and
// available to handlers for the response envelope.
func TrackID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		trackID := c.Get("X-Track-Id")
		if trackID == "" {
			trackID = uuid.NewString()
		}

		c.Locals(trackIDKey, trackID)
		c.Set("X-Track-Id", trackID)

		return c.Next()
	}
}

func GetTrackID(c *fiber.Ctx) string {
	trackID, _ := c.Locals(trackIDKey).(string)
	return trackID
}
