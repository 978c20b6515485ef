package api

import (
	"errors"
	"net"
	"net/http"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	goopenai "github.com/sashabaranov/go-openai"

	"github.com/bitmark-inc/medassist-api/assist"
	"github.com/bitmark-inc/medassist-api/external"
	"github.com/bitmark-inc/medassist-api/external/upstream"
	"github.com/bitmark-inc/medassist-api/triage"
	"github.com/bitmark-inc/medassist-api/tts"
)

var (
	errorMessageMap = map[int64]string{
		999: "internal server error",

		1010: "invalid parameters",
		1011: "cannot parse request",

		1400: assist.ErrCoordinatesRequired.Error(),
		1401: tts.ErrUnsupportedVoice.Error(),

		1500: "invalid model assessment",
		1501: "service not configured",
		1502: "upstream service error",
		1503: tts.ErrEmptyText.Error(),
		1504: "speech synthesis failed",
	}

	errorInternalServer = errorJSON(999)

	errorInvalidParameters  = errorJSON(1010)
	errorCannotParseRequest = errorJSON(1011)

	errorCoordinatesRequired = errorJSON(1400)
	errorUnsupportedVoice    = errorJSON(1401)

	errorInvalidAssessment   = errorJSON(1500)
	errorNotConfigured       = errorJSON(1501)
	errorUpstreamService     = errorJSON(1502)
	errorNothingToSynthesize = errorJSON(1503)
	errorSynthesisFailed     = errorJSON(1504)
)

type ErrorResponse struct {
	Code    int64  `json:"code"`
	Message string `json:"message"`
}

// errorJSON converts an error code to a standardized error object
func errorJSON(code int64) ErrorResponse {
	var message string
	if msg, ok := errorMessageMap[code]; ok {
		message = msg
	} else {
		message = "unknown"
	}

	return ErrorResponse{
		Code:    code,
		Message: message,
	}
}

// withDetail appends the detail of an error to the standard message.
func (e ErrorResponse) withDetail(detail string) ErrorResponse {
	if detail != "" {
		e.Message = e.Message + ": " + detail
	}
	return e
}

// classifyError maps an operation error to its status and response.
func classifyError(err error) (int, ErrorResponse) {
	var (
		synthErr    *tts.SynthesisError
		contractErr *triage.ContractError
		missingErr  *external.MissingSettingError
		statusErr   *upstream.StatusError
		apiErr      *goopenai.APIError
		requestErr  *goopenai.RequestError
		netErr      net.Error
	)

	switch {
	case errors.Is(err, assist.ErrCoordinatesRequired):
		return http.StatusBadRequest, errorCoordinatesRequired
	case errors.Is(err, tts.ErrUnsupportedVoice):
		return http.StatusBadRequest, errorUnsupportedVoice
	case errors.As(err, &synthErr):
		if errors.Is(err, tts.ErrEmptyText) {
			return http.StatusInternalServerError, errorNothingToSynthesize
		}
		return http.StatusInternalServerError, errorSynthesisFailed.withDetail(synthErr.Message)
	case errors.As(err, &contractErr):
		return http.StatusInternalServerError, errorInvalidAssessment.withDetail(contractErr.Reason)
	case errors.As(err, &missingErr):
		return http.StatusInternalServerError, errorNotConfigured.withDetail(missingErr.Error())
	case errors.As(err, &statusErr):
		return http.StatusBadGateway, errorUpstreamService.withDetail(statusErr.Service)
	case errors.Is(err, upstream.ErrCircuitOpen):
		return http.StatusBadGateway, errorUpstreamService.withDetail(err.Error())
	case errors.As(err, &apiErr), errors.As(err, &requestErr), errors.As(err, &netErr):
		return http.StatusBadGateway, errorUpstreamService
	default:
		return http.StatusInternalServerError, errorInternalServer
	}
}

// abortWithError responds with the mapping of err. Server side failures are
// reported to sentry.
func abortWithError(c *gin.Context, err error) {
	code, resp := classifyError(err)
	if code >= http.StatusInternalServerError {
		if hub := sentrygin.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		}
	}
	abortWithEncoding(c, code, resp, err)
}

// abortWithBindingError tells apart malformed bodies and invalid values.
func abortWithBindingError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, err)
		return
	}
	abortWithEncoding(c, http.StatusBadRequest, errorCannotParseRequest, err)
}
