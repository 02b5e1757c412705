package httpserver

import (
	"net/http/pprof"

	"github.com/gin-gonic/gin"
)

func (srv *HTTPServer) setupRoutes() {
	r := srv.ginRouter

	r.GET("/", srv.handleRoot)
	r.GET("/ping", srv.handlePing)

	if assetsDir := srv.services.AssetsDir; assetsDir != "" {
		r.Static("/assets", assetsDir)
	}

	apiGroup := r.Group("/api/v1")

	apiGroup.GET("/sprites", srv.handleGetSprites)

	pokedexGroup := apiGroup.Group("/pokedex")
	pokedexGroup.GET("", srv.handleGetPokedex)
	pokedexGroup.GET("/raw", srv.handleGetRawPokedex)
	pokedexGroup.GET("/:dex_nr", srv.handleGetCreature)

	boxGroup := apiGroup.Group("/box")
	boxGroup.GET("/:user_id", srv.handleGetBox)
	boxGroup.POST("/:user_id", srv.handleAddBoxEntry)
	boxGroup.GET("/:user_id/snapshot", srv.handleGetBoxSnapshot)
	if srv.services.Streams != nil {
		boxGroup.GET("/:user_id/events", srv.handleBoxStream)
	} else {
		boxGroup.GET("/:user_id/events", srv.handleBoxStreamDisabled)
	}
	boxGroup.PUT("/:user_id/:slot", srv.handleUpdateBoxEntry)
	boxGroup.DELETE("/:user_id/:slot", srv.handleRemoveBoxEntry)

	apiGroup.GET("/recommend", srv.handleRecommend)
	apiGroup.POST("/recommend", srv.handleRecommend)

	debugGroup := r.Group("/debug/pprof")
	debugGroup.GET("/", func(c *gin.Context) {
		pprof.Index(c.Writer, c.Request)
	})
	debugGroup.GET("/cmdline", func(c *gin.Context) {
		pprof.Cmdline(c.Writer, c.Request)
	})
	debugGroup.GET("/heap", func(c *gin.Context) {
		pprof.Index(c.Writer, c.Request)
	})
	debugGroup.GET("/goroutine", func(c *gin.Context) {
		pprof.Index(c.Writer, c.Request)
	})
	debugGroup.GET("/block", func(c *gin.Context) {
		pprof.Index(c.Writer, c.Request)
	})
	debugGroup.GET("/mutex", func(c *gin.Context) {
		pprof.Index(c.Writer, c.Request)
	})
	debugGroup.GET("/trace", func(c *gin.Context) {
		pprof.Trace(c.Writer, c.Request)
	})
	debugGroup.GET("/profile", func(c *gin.Context) {
		pprof.Profile(c.Writer, c.Request)
	})
	debugGroup.GET("/symbol", func(c *gin.Context) {
		pprof.Symbol(c.Writer, c.Request)
	})
}
