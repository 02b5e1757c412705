package httpserver

import (
	"errors"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pvpokemon/pvpokemon/box_service"
	"github.com/pvpokemon/pvpokemon/db_store"
)

type boxResponse struct {
	Box []db_store.BoxEntry `json:"box"`
}

type spriteErrorResponse struct {
	Error  string `json:"error"`
	Sprite string `json:"sprite"`
}

func (srv *HTTPServer) respondBoxError(c *gin.Context, operation, sprite string, err error) {
	var validationErr *box_service.ValidationError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, APIErrorResponse{
			Error: validationErr.Message,
		})
	case errors.Is(err, box_service.ErrSpriteNotFound):
		c.JSON(http.StatusBadRequest, spriteErrorResponse{
			Error:  "Sprite not found in assets",
			Sprite: sprite,
		})
	case errors.Is(err, db_store.ErrInvalidSlot):
		c.JSON(http.StatusBadRequest, APIErrorResponse{
			Error: "Invalid slot index",
		})
	default:
		srv.logger.Errorf("BOX[%s]: %s failed: %v", c.Param("user_id"), operation, err)
		c.JSON(http.StatusInternalServerError, APIErrorResponse{
			Error: "an internal error occurred: check the logs",
		})
	}
}

func (srv *HTTPServer) parseSlot(c *gin.Context) (int, bool) {
	slot, err := strconv.Atoi(c.Param("slot"))
	if err != nil {
		c.JSON(http.StatusBadRequest, APIErrorResponse{
			Error: "malformed slot",
		})
		return 0, false
	}
	return slot, true
}

func (srv *HTTPServer) parseEntryRequest(c *gin.Context) (box_service.EntryRequest, bool) {
	body, err := c.GetRawData()
	if err == nil {
		var req box_service.EntryRequest
		if req, err = box_service.ParseEntryRequest(body); err == nil {
			return req, true
		}
	}

	srv.respondBoxError(c, "parse", "", err)
	return box_service.EntryRequest{}, false
}

func (srv *HTTPServer) handleGetBox(c *gin.Context) {
	box, err := srv.services.BoxService.GetBox(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		srv.respondBoxError(c, "get", "", err)
		return
	}
	c.JSON(http.StatusOK, boxResponse{box})
}

// handleGetBoxSnapshot returns the box as last written to the read models.
func (srv *HTTPServer) handleGetBoxSnapshot(c *gin.Context) {
	snapshots := srv.services.Snapshots
	if snapshots == nil {
		c.JSON(http.StatusNotFound, APIErrorResponse{
			Error: "read models are not enabled",
		})
		return
	}

	snapshot, err := snapshots.LoadSnapshot(c.Param("user_id"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			c.JSON(http.StatusNotFound, APIErrorResponse{
				Error: "no snapshot for user",
			})
			return
		}
		srv.respondBoxError(c, "snapshot", "", err)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

func (srv *HTTPServer) handleAddBoxEntry(c *gin.Context) {
	req, ok := srv.parseEntryRequest(c)
	if !ok {
		return
	}

	box, err := srv.services.BoxService.AddEntry(c.Request.Context(), c.Param("user_id"), req)
	if err != nil {
		srv.respondBoxError(c, "add", req.Sprite, err)
		return
	}

	srv.statsCollector.AddBoxOperation("add")
	c.JSON(http.StatusOK, boxResponse{box})
}

func (srv *HTTPServer) handleUpdateBoxEntry(c *gin.Context) {
	slot, ok := srv.parseSlot(c)
	if !ok {
		return
	}

	req, ok := srv.parseEntryRequest(c)
	if !ok {
		return
	}

	box, err := srv.services.BoxService.UpdateEntry(c.Request.Context(), c.Param("user_id"), slot, req)
	if err != nil {
		srv.respondBoxError(c, "update", req.Sprite, err)
		return
	}

	srv.statsCollector.AddBoxOperation("update")
	c.JSON(http.StatusOK, boxResponse{box})
}

func (srv *HTTPServer) handleRemoveBoxEntry(c *gin.Context) {
	type removeResponse struct {
		Removed db_store.BoxEntry   `json:"removed"`
		Box     []db_store.BoxEntry `json:"box"`
	}

	slot, ok := srv.parseSlot(c)
	if !ok {
		return
	}

	removed, box, err := srv.services.BoxService.RemoveEntry(c.Request.Context(), c.Param("user_id"), slot)
	if err != nil {
		srv.respondBoxError(c, "remove", "", err)
		return
	}

	srv.statsCollector.AddBoxOperation("remove")
	c.JSON(http.StatusOK, removeResponse{removed, box})
}
