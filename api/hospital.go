package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) hospitals(c *gin.Context) {
	params, ok := bindSymptoms(c)
	if !ok {
		return
	}

	facilities, err := s.assistant.Hospitals(c.Request.Context(), params)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"hospitals": facilities})
}
