package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/milk9111/tilepath/pathfind"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type NextRequest struct {
	Level  string        `json:"level" binding:"required"`
	Agent  *pathfind.Vec `json:"agent" binding:"required"`
	Target *pathfind.Vec `json:"target" binding:"required"`
	// Path asks for the full route in the response.
	Path bool `json:"path"`
}

type NextResponse struct {
	Found    bool            `json:"found"`
	Waypoint *pathfind.Vec   `json:"waypoint,omitempty"`
	Tile     *pathfind.Tile  `json:"tile,omitempty"`
	Path     []pathfind.Tile `json:"path,omitempty"`
	Expanded int             `json:"expanded"`
	Reason   string          `json:"reason"`
}

func NewRouter(svc *Service) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")
	api.POST("/path/next", nextHandler(svc))
	api.GET("/levels", levelsHandler(svc))
	api.GET("/sim/ws", streamHandler(svc))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}

func nextHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req NextRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			log.Printf("[WARN] bad next request: %v", err)
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		finder, ok := svc.Finder(req.Level)
		if !ok {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "unknown level " + req.Level})
			return
		}

		res, err := finder.Search(*req.Agent, *req.Target)
		resp := NextResponse{
			Found:    err == nil,
			Expanded: res.Expanded,
			Reason:   pathfind.Outcome(err),
		}
		switch {
		case err == nil:
			resp.Waypoint = &res.Waypoint
			resp.Tile = &res.Next
			if req.Path {
				resp.Path = res.Path
			}
		case errors.Is(err, pathfind.ErrInvalidCoordinate):
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error(), "reason": resp.Reason})
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

func levelsHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"levels": svc.Levels()})
	}
}
