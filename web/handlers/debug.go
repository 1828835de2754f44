package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/modelitalytran/Ban-Ga/database"
)

// GetSQLLogs returns recent SQL queries for debugging
func GetSQLLogs(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"count":   database.SQLTracer.Count(),
		"queries": database.SQLTracer.Recent(),
	})
}

// ClearSQLLogs clears the SQL query log
func ClearSQLLogs(c *fiber.Ctx) error {
	database.SQLTracer.Clear()
	return c.JSON(fiber.Map{
		"message": "Đã xóa nhật ký truy vấn SQL",
	})
}
