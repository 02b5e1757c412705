package httpserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"

	"github.com/pvpokemon/pvpokemon/recommender"
)

type recommendRequest struct {
	OpponentTypes []string
	UserId        string
}

type recommendResponse struct {
	OpponentTypes []string             `json:"opponent_types"`
	UserId        string               `json:"user_id,omitempty"`
	Team          []recommender.Result `json:"team"`
}

// splitTypes accepts "ROCK,WATER" style lists.
func splitTypes(values ...string) []string {
	var types []string
	for _, value := range values {
		for _, t := range strings.Split(value, ",") {
			if t = strings.TrimSpace(t); t != "" {
				types = append(types, t)
			}
		}
	}
	return types
}

func parseRecommendQuery(c *gin.Context) recommendRequest {
	return recommendRequest{
		OpponentTypes: splitTypes(c.QueryArray("opponent_types")...),
		UserId:        c.Query("user_id"),
	}
}

// parseRecommendBody reads {"opponent_types": [...] or "A,B", "user_id": "..."}.
// An empty body is the same as {}.
func parseRecommendBody(body []byte) (recommendRequest, bool) {
	var req recommendRequest

	if len(strings.TrimSpace(string(body))) == 0 {
		return req, true
	}
	if !gjson.ValidBytes(body) {
		return req, false
	}

	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return req, false
	}

	opponentTypes := doc.Get("opponent_types")
	switch {
	case opponentTypes.IsArray():
		opponentTypes.ForEach(func(_, value gjson.Result) bool {
			if value.Type == gjson.String {
				req.OpponentTypes = append(req.OpponentTypes, value.Str)
			}
			return true
		})
	case opponentTypes.Type == gjson.String:
		req.OpponentTypes = splitTypes(opponentTypes.Str)
	}

	if userId := doc.Get("user_id"); userId.Type == gjson.String {
		req.UserId = userId.Str
	}

	return req, true
}

func (srv *HTTPServer) handleRecommend(c *gin.Context) {
	req := parseRecommendQuery(c)

	if c.Request.Method == http.MethodPost {
		body, err := c.GetRawData()
		if err != nil {
			srv.respondBoxError(c, "recommend", "", err)
			return
		}
		var ok bool
		if req, ok = parseRecommendBody(body); !ok {
			c.JSON(http.StatusBadRequest, APIErrorResponse{
				Error: "Invalid JSON body",
			})
			return
		}
	}

	rec := srv.services.Recommender

	var team []recommender.Result

	if req.UserId == "" {
		team = rec.Recommend(srv.services.Pokedex, req.OpponentTypes)
	} else {
		pool, err := srv.services.BoxService.Candidates(c.Request.Context(), req.UserId)
		if err != nil {
			srv.respondBoxError(c, "recommend", "", err)
			return
		}
		team = rec.RecommendFromPool(req.OpponentTypes, pool)
	}

	srv.statsCollector.AddRecommendationServed(req.UserId != "")

	opponentTypes := recommender.NormalizeOpponentTypes(req.OpponentTypes)
	if opponentTypes == nil {
		opponentTypes = []string{}
	}

	c.JSON(http.StatusOK, recommendResponse{
		OpponentTypes: opponentTypes,
		UserId:        req.UserId,
		Team:          team,
	})
}
