package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthResponse reports that the API is serving requests.
type HealthResponse struct {
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
}

// getHealth godoc
// @Summary Show the status of server.
// @Description get the status of server.
// @Tags root
// @Accept */*
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func getHealth(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, HealthResponse{Status: "ok", Time: time.Now().UTC()})
}

// registerHealthRoutes registers the unauthenticated health route.
func registerHealthRoutes(group *gin.RouterGroup) {
	group.GET("/health", getHealth)
}
