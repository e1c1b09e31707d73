// Package handler provides the HTTP boundary for the translation proxy.
// It is the only place where error kinds become status codes.
package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/pricofy/youdao-translate/internal/domain"
)

// Reply messages.
const (
	msgMethodNotAllowed  = "Method not allowed. Use POST."
	msgMissingText       = "Missing 'text' parameter"
	msgTranslationFailed = "Translation failed"
	msgUpstreamFailed    = "Request to Youdao API failed"
)

// Translator is the translation core.
type Translator interface {
	Translate(ctx context.Context, req domain.TranslationRequest) (*domain.TranslationResult, error)
}

// Response is a status code plus JSON body.
type Response struct {
	StatusCode int
	Body       []byte
}

// ErrorBody is the JSON shape of every error reply.
type ErrorBody struct {
	Error     string          `json:"error"`
	ErrorCode string          `json:"errorCode,omitempty"`
	Details   json.RawMessage `json:"details,omitempty"`
}

var jsonHeaders = map[string]string{"Content-Type": "application/json"}

// Handler adapts HTTP-style invocations to the Translator.
type Handler struct {
	translator Translator
	logger     *zap.Logger
}

// New creates a new Handler.
func New(translator Translator, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{translator: translator, logger: logger}
}

// Handle processes one request. It never returns an error: every failure
// is reported in the response.
func (h *Handler) Handle(ctx context.Context, method string, body []byte) Response {
	if !strings.EqualFold(method, http.MethodPost) {
		return h.fail(domain.InvalidMethod(method))
	}

	req, err := decodeRequest(body)
	if err != nil {
		return h.fail(err)
	}

	result, err := h.translator.Translate(ctx, req)
	if err != nil {
		return h.fail(err)
	}

	return respond(http.StatusOK, result)
}

// HandleHTTPAPI serves API Gateway HTTP API (payload v2) and Function URL events.
func (h *Handler) HandleHTTPAPI(ctx context.Context, event events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	body, err := eventBody(event.Body, event.IsBase64Encoded)
	if err != nil {
		body = nil
	}

	resp := h.Handle(ctx, event.RequestContext.HTTP.Method, body)
	return events.APIGatewayV2HTTPResponse{
		StatusCode: resp.StatusCode,
		Headers:    jsonHeaders,
		Body:       string(resp.Body),
	}, nil
}

// HandleRESTAPI serves API Gateway REST API (payload v1) proxy events.
func (h *Handler) HandleRESTAPI(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	body, err := eventBody(event.Body, event.IsBase64Encoded)
	if err != nil {
		body = nil
	}

	resp := h.Handle(ctx, event.HTTPMethod, body)
	return events.APIGatewayProxyResponse{
		StatusCode: resp.StatusCode,
		Headers:    jsonHeaders,
		Body:       string(resp.Body),
	}, nil
}

// decodeRequest parses the JSON body. An empty or malformed body counts as
// a missing text field.
func decodeRequest(body []byte) (domain.TranslationRequest, error) {
	var req domain.TranslationRequest
	if len(body) == 0 {
		return req, domain.MissingField("text")
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return req, &domain.Error{Kind: domain.KindMissingField, Message: "body is not a JSON object", Err: err}
	}
	return req, nil
}

func eventBody(body string, isBase64 bool) ([]byte, error) {
	if !isBase64 {
		return []byte(body), nil
	}
	return base64.StdEncoding.DecodeString(body)
}

// fail maps err to its status code and reply body.
func (h *Handler) fail(err error) Response {
	var derr *domain.Error
	if !errors.As(err, &derr) {
		derr = domain.UpstreamUnavailable(err, nil)
	}

	switch derr.Kind {
	case domain.KindInvalidMethod:
		return respond(http.StatusMethodNotAllowed, ErrorBody{Error: msgMethodNotAllowed})
	case domain.KindMissingField:
		return respond(http.StatusBadRequest, ErrorBody{Error: msgMissingText})
	case domain.KindTranslationFailed:
		return respond(http.StatusBadRequest, ErrorBody{
			Error:     msgTranslationFailed,
			ErrorCode: derr.ErrorCode,
			Details:   detailsJSON(derr),
		})
	default:
		h.logger.Error("Translation request failed", zap.Error(derr))
		return respond(http.StatusInternalServerError, ErrorBody{
			Error:   msgUpstreamFailed,
			Details: detailsJSON(derr),
		})
	}
}

// detailsJSON embeds an upstream JSON payload as-is and anything else as a
// JSON string.
func detailsJSON(derr *domain.Error) json.RawMessage {
	if len(derr.Details) > 0 && json.Valid(derr.Details) {
		return json.RawMessage(derr.Details)
	}
	detail := derr.Detail()
	if detail == "" {
		return nil
	}
	out, _ := json.Marshal(detail)
	return out
}

func respond(status int, v interface{}) Response {
	body, err := json.Marshal(v)
	if err != nil {
		return Response{
			StatusCode: http.StatusInternalServerError,
			Body:       []byte(`{"error":"failed to encode response"}`),
		}
	}
	return Response{StatusCode: status, Body: body}
}
