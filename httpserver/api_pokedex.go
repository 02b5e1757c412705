package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"

	"github.com/pvpokemon/pvpokemon/pokedex"
)

type messageResponse struct {
	Message string `json:"message"`
}

func (srv *HTTPServer) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, messageResponse{"Welcome to the pvpokemon backend"})
}

func (srv *HTTPServer) handlePing(c *gin.Context) {
	c.JSON(http.StatusOK, messageResponse{"pong"})
}

func (srv *HTTPServer) handleGetSprites(c *gin.Context) {
	type getSpritesResponse struct {
		Sprites []string `json:"sprites"`
	}

	sprites, err := pokedex.ListSprites(srv.services.AssetsDir)
	if err != nil {
		srv.logger.Warnf("GetSprites: %v", err)
		c.JSON(http.StatusInternalServerError, APIErrorResponse{
			Error: "Assets folder not found",
		})
		return
	}

	c.JSON(http.StatusOK, getSpritesResponse{sprites})
}

// handleGetPokedex returns the loaded creatures. When nothing could be
// loaded, it falls back to what's in the raw document.
func (srv *HTTPServer) handleGetPokedex(c *gin.Context) {
	type getPokedexResponse struct {
		Pokedex any `json:"pokedex"`
	}

	dex := srv.services.Pokedex

	if dex.Len() > 0 {
		c.JSON(http.StatusOK, getPokedexResponse{dex.All()})
		return
	}

	raw := dex.Raw()
	if raw == nil {
		c.JSON(http.StatusNotFound, APIErrorResponse{
			Error: "No pokedex file found",
		})
		return
	}

	if sample := gjson.GetBytes(raw, pokedex.SAMPLE_KEY); sample.IsArray() {
		c.JSON(http.StatusOK, getPokedexResponse{json.RawMessage(sample.Raw)})
		return
	}

	type rawSummaryResponse struct {
		Message    string `json:"message"`
		RawSummary bool   `json:"raw_summary"`
	}

	c.JSON(http.StatusOK, rawSummaryResponse{
		Message:    "Pokedex loaded but no indexed entries available; use /api/v1/pokedex/raw to see raw file",
		RawSummary: true,
	})
}

func (srv *HTTPServer) handleGetRawPokedex(c *gin.Context) {
	raw := srv.services.Pokedex.Raw()
	if raw == nil {
		c.JSON(http.StatusNotFound, APIErrorResponse{
			Error: "No pokedex file loaded",
		})
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
}

func (srv *HTTPServer) handleGetCreature(c *gin.Context) {
	type getCreatureResponse struct {
		Pokedex *pokedex.Creature `json:"pokedex"`
	}

	dexNr, err := strconv.Atoi(c.Param("dex_nr"))
	if err != nil {
		c.JSON(http.StatusBadRequest, APIErrorResponse{
			Error: "malformed dex number",
		})
		return
	}

	creature := srv.services.Pokedex.Get(dexNr)
	if creature == nil {
		c.JSON(http.StatusNotFound, APIErrorResponse{
			Error: fmt.Sprintf("Pokemon not found for dexNr %d", dexNr),
		})
		return
	}

	c.JSON(http.StatusOK, getCreatureResponse{creature})
}
