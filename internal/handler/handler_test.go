package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap/zaptest"

	"github.com/pricofy/youdao-translate/internal/domain"
)

type stubTranslator struct {
	result *domain.TranslationResult
	err    error
	calls  int
	req    domain.TranslationRequest
}

func (s *stubTranslator) Translate(ctx context.Context, req domain.TranslationRequest) (*domain.TranslationResult, error) {
	s.calls++
	s.req = req
	if s.err != nil {
		return nil, s.err
	}
	if req.Text == "" {
		return nil, domain.MissingField("text")
	}
	return s.result, nil
}

func bonjour() *domain.TranslationResult {
	return &domain.TranslationResult{
		TranslatedText: "Bonjour",
		SourceLanguage: "en",
		TargetLanguage: "fr",
		Pronunciation:  domain.Pronunciation{Source: "https://s/src", Target: "https://s/dst"},
		Raw:            json.RawMessage(`{"errorCode":"0"}`),
	}
}

func TestHandle_Success(t *testing.T) {
	tr := &stubTranslator{result: bonjour()}
	h := New(tr, zaptest.NewLogger(t))

	resp := h.Handle(context.Background(), "POST", []byte(`{"text":"Hello","targetLanguage":"fr"}`))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("StatusCode = %d, want 200: %s", resp.StatusCode, resp.Body)
	}

	var got map[string]interface{}
	if err := json.Unmarshal(resp.Body, &got); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if got["translatedText"] != "Bonjour" || got["sourceLanguage"] != "en" || got["targetLanguage"] != "fr" {
		t.Errorf("unexpected body: %s", resp.Body)
	}
	pron, _ := got["pronunciation"].(map[string]interface{})
	if pron["source"] != "https://s/src" || pron["target"] != "https://s/dst" {
		t.Errorf("pronunciation = %v", got["pronunciation"])
	}
	raw, _ := got["raw"].(map[string]interface{})
	if raw["errorCode"] != "0" {
		t.Errorf("raw = %v", got["raw"])
	}
	if tr.req.Text != "Hello" || tr.req.TargetLanguage != "fr" {
		t.Errorf("translator got %+v", tr.req)
	}
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		body       string
		err        error
		status     int
		expected   string
		wantCalled bool
	}{
		{
			name:     "GET not allowed",
			method:   "GET",
			body:     `{"text":"Hello"}`,
			status:   http.StatusMethodNotAllowed,
			expected: `{"error":"Method not allowed. Use POST."}`,
		},
		{
			name:     "PUT not allowed",
			method:   "PUT",
			status:   http.StatusMethodNotAllowed,
			expected: `{"error":"Method not allowed. Use POST."}`,
		},
		{
			name:     "empty body",
			method:   "POST",
			status:   http.StatusBadRequest,
			expected: `{"error":"Missing 'text' parameter"}`,
		},
		{
			name:     "malformed body",
			method:   "POST",
			body:     `{"text":`,
			status:   http.StatusBadRequest,
			expected: `{"error":"Missing 'text' parameter"}`,
		},
		{
			name:       "missing text",
			method:     "POST",
			body:       `{"targetLanguage":"fr"}`,
			status:     http.StatusBadRequest,
			expected:   `{"error":"Missing 'text' parameter"}`,
			wantCalled: true,
		},
		{
			name:       "upstream error code",
			method:     "post",
			body:       `{"text":"Hello"}`,
			err:        domain.TranslationFailed("108", []byte(`{"errorCode":"108"}`)),
			status:     http.StatusBadRequest,
			expected:   `{"error":"Translation failed","errorCode":"108","details":{"errorCode":"108"}}`,
			wantCalled: true,
		},
		{
			name:       "upstream unavailable with body",
			method:     "POST",
			body:       `{"text":"Hello"}`,
			err:        domain.UpstreamUnavailable(errors.New("upstream returned status 403"), []byte("Forbidden")),
			status:     http.StatusInternalServerError,
			expected:   `{"error":"Request to Youdao API failed","details":"Forbidden"}`,
			wantCalled: true,
		},
		{
			name:       "upstream unavailable without body",
			method:     "POST",
			body:       `{"text":"Hello"}`,
			err:        domain.UpstreamUnavailable(errors.New("connection refused"), nil),
			status:     http.StatusInternalServerError,
			expected:   `{"error":"Request to Youdao API failed","details":"connection refused"}`,
			wantCalled: true,
		},
		{
			name:       "untagged error",
			method:     "POST",
			body:       `{"text":"Hello"}`,
			err:        errors.New("boom"),
			status:     http.StatusInternalServerError,
			expected:   `{"error":"Request to Youdao API failed","details":"boom"}`,
			wantCalled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := &stubTranslator{result: bonjour(), err: tt.err}
			h := New(tr, zaptest.NewLogger(t))

			resp := h.Handle(context.Background(), tt.method, []byte(tt.body))
			if resp.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", resp.StatusCode, tt.status)
			}
			if string(resp.Body) != tt.expected {
				t.Errorf("Body = %s, want %s", resp.Body, tt.expected)
			}
			if (tr.calls > 0) != tt.wantCalled {
				t.Errorf("translator calls = %d, wantCalled %v", tr.calls, tt.wantCalled)
			}
		})
	}
}

func TestHandleHTTPAPI(t *testing.T) {
	h := New(&stubTranslator{result: bonjour()}, nil)

	tests := []struct {
		name   string
		event  events.APIGatewayV2HTTPRequest
		status int
	}{
		{
			name: "plain body",
			event: events.APIGatewayV2HTTPRequest{
				RequestContext: events.APIGatewayV2HTTPRequestContext{
					HTTP: events.APIGatewayV2HTTPRequestContextHTTPDescription{Method: "POST"},
				},
				Body: `{"text":"Hello"}`,
			},
			status: http.StatusOK,
		},
		{
			name: "base64 body",
			event: events.APIGatewayV2HTTPRequest{
				RequestContext: events.APIGatewayV2HTTPRequestContext{
					HTTP: events.APIGatewayV2HTTPRequestContextHTTPDescription{Method: "POST"},
				},
				Body:            base64.StdEncoding.EncodeToString([]byte(`{"text":"Hello"}`)),
				IsBase64Encoded: true,
			},
			status: http.StatusOK,
		},
		{
			name: "bad base64",
			event: events.APIGatewayV2HTTPRequest{
				RequestContext: events.APIGatewayV2HTTPRequestContext{
					HTTP: events.APIGatewayV2HTTPRequestContextHTTPDescription{Method: "POST"},
				},
				Body:            "%%%",
				IsBase64Encoded: true,
			},
			status: http.StatusBadRequest,
		},
		{
			name: "GET",
			event: events.APIGatewayV2HTTPRequest{
				RequestContext: events.APIGatewayV2HTTPRequestContext{
					HTTP: events.APIGatewayV2HTTPRequestContextHTTPDescription{Method: "GET"},
				},
			},
			status: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := h.HandleHTTPAPI(context.Background(), tt.event)
			if err != nil {
				t.Fatalf("HandleHTTPAPI() unexpected error: %v", err)
			}
			if resp.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d: %s", resp.StatusCode, tt.status, resp.Body)
			}
			if resp.Headers["Content-Type"] != "application/json" {
				t.Errorf("Content-Type = %q", resp.Headers["Content-Type"])
			}
		})
	}
}

func TestHandleRESTAPI(t *testing.T) {
	h := New(&stubTranslator{result: bonjour()}, nil)

	resp, err := h.HandleRESTAPI(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod: "POST",
		Body:       `{"text":"Hello","targetLanguage":"fr"}`,
	})
	if err != nil {
		t.Fatalf("HandleRESTAPI() unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", resp.StatusCode)
	}
	if !strings.Contains(resp.Body, `"translatedText":"Bonjour"`) {
		t.Errorf("Body = %s", resp.Body)
	}
}
