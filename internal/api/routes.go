package api

import "github.com/gin-gonic/gin"

func (s *Server) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.GET("/health", health)
		api.GET("/qr", qrHandler)

		api.GET("/shapes", listShapes)
		api.GET("/shapes/:kind", shapeHandler)
		api.POST("/pattern", patternHandler)

		api.GET("/settings", s.settingsHandler)
		api.POST("/layout", s.layoutHandler)
		api.POST("/sheets", s.sheetsHandler)
		api.POST("/sheets/:page/svg", s.sheetSVGHandler)

		api.GET("/content", s.contentHandler)
		api.POST("/cards/filter", s.filterHandler)
		api.POST("/cards/local", s.addLocalHandler)
		api.DELETE("/cards/local/:id", s.removeLocalHandler)
		api.PUT("/cards/:id/overlay", s.setOverlayHandler)
		api.DELETE("/cards/:id/overlay", s.clearOverlayHandler)

		api.POST("/selection/export", exportSelectionHandler)
		api.POST("/selection/import", importSelectionHandler)

		api.POST("/export/zip", s.exportZipHandler)
		api.POST("/export/pdf", s.exportPDFHandler)
	}
}
