package data

import (
	"github.com/labstack/echo/v4"
)

// RegisterDataRoutes registers users and tasks routes
func RegisterDataRoutes(e *echo.Echo, handler *DataHandler) {
	e.Validator = NewRequestValidator()

	users := e.Group("/api/users")
	users.GET("", handler.ListUsers)
	users.POST("", handler.CreateUser)
	users.GET("/:id", handler.GetUser)
	users.PUT("/:id", handler.UpdateUser)
	users.DELETE("/:id", handler.DeleteUser)

	tasks := e.Group("/api/tasks")
	tasks.GET("", handler.ListTasks)
	tasks.POST("", handler.CreateTask)
	tasks.GET("/:id", handler.GetTask)
	tasks.PUT("/:id", handler.UpdateTask)
	tasks.DELETE("/:id", handler.DeleteTask)
}
