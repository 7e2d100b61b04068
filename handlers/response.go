package handlers

import (
	"github.com/labstack/echo/v4"
)

// errorBody is the envelope every non-2xx JSON response carries
type errorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func respondError(c echo.Context, status int, message string) error {
	return c.JSON(status, errorBody{Success: false, Error: message})
}
