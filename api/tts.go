package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bitmark-inc/medassist-api/schema"
)

func (s *Server) textToSpeech(c *gin.Context) {
	var params schema.TTSRequest

	if err := c.ShouldBindJSON(&params); err != nil {
		abortWithBindingError(c, err)
		return
	}

	audio, err := s.synthesizer.Synthesize(c.Request.Context(), params.Text, params.Voice)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.Data(http.StatusOK, "audio/mpeg", audio)
}
