package api

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/milk9111/tilepath/ecs"
	"github.com/milk9111/tilepath/system"
)

const (
	defaultStreamFrames = 600
	maxStreamFrames     = 10000
	writeWait           = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 16 * 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// streamHandler runs a private simulation of a level and sends one
// system.FrameRecord per frame as a text message. The socket closes once
// every agent has arrived or the frame budget runs out.
//
// Query: level (required), frames, interval (Go duration, default 16ms).
func streamHandler(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		level := c.Query("level")
		frames := defaultStreamFrames
		if v := c.Query("frames"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 || n > maxStreamFrames {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "bad frames " + v})
				return
			}
			frames = n
		}
		interval := 16 * time.Millisecond
		if v := c.Query("interval"); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil || d < 0 {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "bad interval " + v})
				return
			}
			interval = d
		}

		world, ok, err := svc.Simulate(level)
		if !ok {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "unknown level " + level})
			return
		}
		if err != nil {
			log.Printf("[WARN] simulate %s: %v", level, err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		// Reader: only control frames matter; a read error means the client left.
		gone := make(chan struct{})
		go func() {
			defer close(gone)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		var tick <-chan time.Time
		if interval > 0 {
			t := time.NewTicker(interval)
			defer t.Stop()
			tick = t.C
		}

		reason := "done"
		arrived := arrivals{}
		for world.Frame() < frames {
			if tick != nil {
				select {
				case <-gone:
					return
				case <-tick:
				}
			}
			rec := world.Record(world.Step())
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(rec); err != nil {
				return
			}
			if arrived.observe(rec) {
				reason = "arrived"
				break
			}
		}
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason),
			time.Now().Add(time.Second))
	}
}

// arrivals tracks which agents on one stream have reached their target.
type arrivals map[ecs.Entity]bool

// observe records rec's path events and reports whether every agent in the
// frame has arrived. A later path_found or path_lost takes an agent back out.
func (a arrivals) observe(rec system.FrameRecord) bool {
	for _, evt := range rec.Events {
		switch evt.Kind {
		case ecs.PathEventArrived:
			a[evt.Entity] = true
		case ecs.PathEventFound, ecs.PathEventLost:
			delete(a, evt.Entity)
		}
	}
	if len(rec.Agents) == 0 {
		return false
	}
	for _, agent := range rec.Agents {
		if !a[agent.Entity] {
			return false
		}
	}
	return true
}
