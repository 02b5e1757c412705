package httpserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/pvpokemon/pvpokemon/events"
)

const (
	// first message on a stream: the box as it is when the stream opens.
	BOX_CURRENT = "Box.Current"

	streamWriteWait  = 10 * time.Second
	streamPongWait   = 60 * time.Second
	streamPingPeriod = (streamPongWait * 9) / 10
	streamReadLimit  = 512
)

var streamUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

// handleBoxStream streams a user's Box.* events over a websocket.
func (srv *HTTPServer) handleBoxStream(c *gin.Context) {
	userId := c.Param("user_id")

	// listen before reading the box so nothing is missed in between.
	listener, stopListening := srv.services.Streams.Listen(userId)
	defer stopListening()

	box, err := srv.services.BoxService.GetBox(c.Request.Context(), userId)
	if err != nil {
		srv.respondBoxError(c, "stream", "", err)
		return
	}

	conn, err := streamUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// the upgrader has already responded.
		srv.logger.Debugf("BOX[%s]: stream upgrade failed: %v", userId, err)
		return
	}
	defer conn.Close()

	srv.logger.Debugf("BOX[%s]: stream opened from %s", userId, c.ClientIP())

	// reads only serve pongs and notice the client going away.
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		conn.SetReadLimit(streamReadLimit)
		conn.SetReadDeadline(time.Now().Add(streamPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(streamPongWait))
		})
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	writeEvent := func(event events.Event) error {
		conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
		return conn.WriteJSON(event)
	}

	current := events.NewEvent(BOX_CURRENT, &events.BoxChanged{
		UserId: userId,
		Action: "current",
		Box:    box,
	})
	if err := writeEvent(current); err != nil {
		return
	}

	ticker := time.NewTicker(streamPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case event := <-listener.Events():
			if err := writeEvent(event); err != nil {
				srv.logger.Debugf("BOX[%s]: stream write failed: %v", userId, err)
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-readDone:
			srv.logger.Debugf("BOX[%s]: stream closed by client", userId)
			return
		case <-listener.Done():
			msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
			conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(streamWriteWait))
			return
		}
	}
}

func (srv *HTTPServer) handleBoxStreamDisabled(c *gin.Context) {
	c.JSON(http.StatusNotFound, APIErrorResponse{
		Error: "box streams are not enabled",
	})
}
