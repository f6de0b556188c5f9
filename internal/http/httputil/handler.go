// Package httputil defines the handler contract and the response envelope
// shared by the HTTP handlers.
package httputil

import "github.com/gin-gonic/gin"

// IHttpHandler is one mounted route group. Root is the path prefix under
// /api/v1; SetRoutes attaches endpoints to the public, authenticated and
// admin groups as appropriate.
type IHttpHandler interface {
	Root() string
	SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup)
}
