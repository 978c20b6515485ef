// Package web serves the browser form that drives the assistant.
package web

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed static
var static embed.FS

// Register mounts the page at / and its assets under /static.
func Register(r gin.IRoutes) {
	assets, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}

	r.GET("/", func(c *gin.Context) {
		c.FileFromFS("/", http.FS(assets))
	})
	r.StaticFS("/static", http.FS(assets))
}
