package router

import (
	"github.com/labstack/echo/v4"

	"github.com/amelendez141/linkup-golf/internal/handler"
	"github.com/amelendez141/linkup-golf/internal/middleware"
)

// RegisterRoutes registers routes that never require authentication.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the session endpoints.  Register, login,
// refresh and logout live under /v1/auth and carry no JWT; logout
// invalidates the presented refresh token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)
}

// RegisterPublic registers guest-browsable catalogue endpoints.  The
// course catalogue and upcoming tee time listings are readable without
// a session so prospective members can see activity before signing up.
// cache, when non-nil, is the Redis response cache applied to these
// read-heavy routes.
func RegisterPublic(e *echo.Echo, ch *handler.CourseHandler, th *handler.TeeTimeHandler, cache echo.MiddlewareFunc) {
	mws := []echo.MiddlewareFunc{}
	if cache != nil {
		mws = append(mws, cache)
	}
	g := e.Group("/v1", mws...)
	g.GET("/courses", ch.List)
	g.GET("/courses/nearby", ch.Nearby)
	g.GET("/courses/:id", ch.Show)
	g.GET("/courses/:id/tee-times", th.ListByCourse)
}

// RegisterMember registers everything that requires a valid access
// token: profiles, tee time management, slot reservation, ranked
// recommendations, messaging and notifications.
func RegisterMember(
	e *echo.Echo,
	jwtSecret string,
	ph *handler.ProfileHandler,
	th *handler.TeeTimeHandler,
	sh *handler.SlotHandler,
	mh *handler.MatchHandler,
	msg *handler.MessageHandler,
	nh *handler.NotificationHandler,
) {
	g := e.Group("/v1", middleware.JWTAuth(jwtSecret))

	g.GET("/me", ph.Me)
	g.PUT("/me", ph.Update)
	g.GET("/users/:id", ph.Show)

	g.POST("/tee-times", th.Create)
	g.GET("/tee-times/:id", th.Show)
	g.GET("/my-tee-times", th.Mine)
	g.PUT("/tee-times/:id", th.Update)
	g.DELETE("/tee-times/:id", th.Cancel)

	g.POST("/tee-times/:id/join", sh.Join)
	g.DELETE("/tee-times/:id/join", sh.Leave)

	g.GET("/recommendations", mh.Recommendations)

	g.POST("/messages", msg.Send)
	g.GET("/messages", msg.Inbox)
	g.GET("/messages/partners", msg.Partners)
	g.GET("/messages/with/:id", msg.Conversation)
	g.POST("/messages/:id/read", msg.MarkRead)

	g.GET("/notifications", nh.List)
	g.GET("/notifications/unread-count", nh.UnreadCount)
	g.POST("/notifications/read-all", nh.MarkAllRead)
}
