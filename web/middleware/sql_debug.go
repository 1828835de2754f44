package middleware

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/modelitalytran/Ban-Ga/database"
)

// SQLDebug exposes per-request query stats. The responses are plain JSON, so
// instead of injecting traces into a template the middleware reports how many
// statements the request ran in an X-SQL-Query-Count header; the full traces
// stay available at /api/debug/sql.
func SQLDebug() fiber.Handler {
	return func(c *fiber.Ctx) error {
		before := database.SQLTracer.Count()

		err := c.Next()

		ran := database.SQLTracer.Count() - before
		if ran < 0 {
			ran = 0 // tracer was cleared mid-request
		}
		c.Set("X-SQL-Query-Count", strconv.Itoa(ran))
		return err
	}
}
