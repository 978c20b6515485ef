package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bitmark-inc/medassist-api/schema"
)

// bindSymptoms reads the symptom input shared by the triage endpoints.
func bindSymptoms(c *gin.Context) (schema.SymptomInput, bool) {
	var params schema.SymptomInput

	if err := c.ShouldBindJSON(&params); err != nil {
		abortWithBindingError(c, err)
		return params, false
	}

	if params.Blank() {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters)
		return params, false
	}

	applyGeoPosition(c, &params)
	return params, true
}

func (s *Server) analyze(c *gin.Context) {
	params, ok := bindSymptoms(c)
	if !ok {
		return
	}

	assessment, err := s.assistant.Analyze(c.Request.Context(), params)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, assessment)
}

func (s *Server) assist(c *gin.Context) {
	params, ok := bindSymptoms(c)
	if !ok {
		return
	}

	assessment, err := s.assistant.Assist(c.Request.Context(), params)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, assessment)
}

func (s *Server) report(c *gin.Context) {
	params, ok := bindSymptoms(c)
	if !ok {
		return
	}

	assessment, err := s.assistant.Assist(c.Request.Context(), params)
	if err != nil {
		abortWithError(c, err)
		return
	}

	summary, err := s.reporter.Render(assessment)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"assessment": assessment,
		"summary":    summary,
	})
}
