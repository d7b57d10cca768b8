package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/go-demo/forum/internal/middleware"
)

// Routes wires every page of the forum
type Routes struct {
	Room    *RoomHandler
	Message *MessageHandler
	Auth    *AuthHandler
	User    *UserHandler

	// Optional POST limiters
	AuthLimit    gin.HandlerFunc
	MessageLimit gin.HandlerFunc
}

func orPass(h gin.HandlerFunc) gin.HandlerFunc {
	if h == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return h
}

// Register mounts the routes on r. Each page answers GET to display and
// POST to submit on the same path.
func (rt *Routes) Register(r *gin.Engine) {
	loginRequired := middleware.RequireLogin(loginURL)
	authLimit := orPass(rt.AuthLimit)
	messageLimit := orPass(rt.MessageLimit)

	r.GET("/", rt.Room.Home)
	r.Match(both, "/topics/", rt.Room.Topics)
	r.GET("/room/:id/", rt.Room.Room)
	r.POST("/room/:id/", loginRequired, messageLimit, rt.Room.Room)

	r.Match(both, "/login/", authLimit, rt.Auth.Login)
	// Anonymous visitors are sent home rather than to the login page
	r.Match(both, "/logout/", middleware.RequireLogin(homeURL), rt.Auth.Logout)
	r.Match(both, "/signup/", authLimit, rt.Auth.Signup)

	r.GET("/profile/:id/", loginRequired, rt.User.Profile)
	r.Match(both, "/edit-profile/:id/", loginRequired, rt.User.EditProfile)

	r.Match(both, "/create-room/", loginRequired, rt.Room.CreateRoom)
	r.Match(both, "/update-room/:id/", loginRequired, rt.Room.UpdateRoom)
	r.Match(both, "/delete-room/:id/", loginRequired, rt.Room.DeleteRoom)

	r.Match(both, "/update-message/:id/", loginRequired, rt.Message.UpdateMessage)
	r.Match(both, "/delete-message/:id/", loginRequired, rt.Message.DeleteMessage)
}

var both = []string{"GET", "POST"}
