package request

import "mime/multipart"

// SignupForm is the registration form
type SignupForm struct {
	Name      string `form:"name" binding:"max=200"`
	Username  string `form:"username" binding:"required,max=150"`
	Email     string `form:"email" binding:"required,email,max=254"`
	Password1 string `form:"password1" binding:"required"`
	Password2 string `form:"password2" binding:"required"`
}

// LoginForm is the login form
type LoginForm struct {
	Email    string `form:"email" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// ProfileForm is the profile edit form; avatar is an optional upload
type ProfileForm struct {
	Name   string                `form:"name" binding:"max=200"`
	Bio    string                `form:"bio" binding:"max=2000"`
	Avatar *multipart.FileHeader `form:"avatar"`
}

// RoomForm creates or updates a room
type RoomForm struct {
	Topic       string `form:"topic" binding:"required,max=200"`
	Name        string `form:"name" binding:"required,max=200"`
	Description string `form:"description" binding:"max=5000"`
}

// MessageForm posts or edits a message
type MessageForm struct {
	Body string `form:"body" binding:"required,max=5000"`
}

// SearchForm carries the q filter from the query string or a posted form
type SearchForm struct {
	Q string `form:"q"`
}
