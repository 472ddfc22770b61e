// Package server exposes the store over HTTP so other clients on the
// same machine or LAN can use the daemon as their storage backend. The
// API mirrors the persist.HTTPAdapter: a whole snapshot in, a whole
// snapshot out.
package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/nhle/gtd/internal/model"
	"github.com/nhle/gtd/internal/store"
)

type postResponse struct {
	Success bool `json:"success"`
}

// New builds an Echo instance with all routes registered.
func New(s *store.Store, logger *log.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	Register(e, s, logger)
	return e
}

// Register wires up all API routes on the provided Echo instance.
func Register(e *echo.Echo, s *store.Store, logger *log.Logger) {
	e.GET("/api/data", getData(s))
	e.POST("/api/data", postData(s, logger))
	e.GET("/healthz", healthz(s))
}

func getData(s *store.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, s.Snapshot())
	}
}

func postData(s *store.Store, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var data model.AppData
		if err := c.Bind(&data); err != nil {
			return c.String(http.StatusBadRequest, "invalid body")
		}
		logger.WithFields(log.Fields{
			"tasks":    len(data.Tasks),
			"projects": len(data.Projects),
		}).Debug("replacing snapshot from client")

		s.Replace(data)
		return c.JSON(http.StatusOK, postResponse{Success: true})
	}
}

func healthz(s *store.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := s.Err(); err != nil {
			return c.String(http.StatusServiceUnavailable, err.Error())
		}
		return c.NoContent(http.StatusOK)
	}
}
