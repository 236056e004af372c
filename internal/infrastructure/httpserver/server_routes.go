package httpserver

func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/metrics", s.metricsEndpoint)

	api := s.echo.Group("/api/v1")

	session := api.Group("", s.middleware.Session.ResolveSession(), s.middleware.RateLimit.Handler())
	session.POST("/cart", s.cartAction)
	session.POST("/cart/pricing", s.priceCart)
	session.POST("/checkout", s.checkout)

	catalog := api.Group("")
	catalog.GET("/catalog/variations/:id", s.getVariation)
	catalog.GET("/inventory/:id", s.getInventory)

	content := api.Group("/content")
	content.GET("/posts", s.listPosts)
	content.GET("/posts/:slug", s.getPost)
}
