package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/geocoder89/postboard/internal/http/handlers"
	"github.com/gin-gonic/gin"
)

type bindTarget struct {
	Title string `json:"title" binding:"required,min=1,max=200"`
	Body  string `json:"body" binding:"required"`
}

func bindProbe() (*gin.Engine, *bindTarget) {
	var captured bindTarget

	r := gin.New()
	r.POST("/probe", func(ctx *gin.Context) {
		var req bindTarget
		if !handlers.BindJSON(ctx, &req) {
			return
		}
		captured = req
		ctx.Status(http.StatusNoContent)
	})

	return r, &captured
}

func postJSON(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/probe", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

type errEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details struct {
			Fields []handlers.FieldError `json:"fields"`
			JSON   string                `json:"json"`
		} `json:"details"`
	} `json:"error"`
}

func TestBindJSONValid(t *testing.T) {
	r, captured := bindProbe()

	w := postJSON(r, `{"title": "T", "body": "B"}`)

	if w.Code != http.StatusNoContent {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	if captured.Title != "T" || captured.Body != "B" {
		t.Fatalf("bind result wrong: %+v", captured)
	}
}

func TestBindJSONValidationErrors(t *testing.T) {
	r, _ := bindProbe()

	w := postJSON(r, `{"body": "B"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d", w.Code)
	}

	var env errEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("bad response body: %v", err)
	}

	if env.Error.Code != "invalid_request" {
		t.Fatalf("got code %q", env.Error.Code)
	}

	if len(env.Error.Details.Fields) != 1 {
		t.Fatalf("got fields %+v", env.Error.Details.Fields)
	}

	fe := env.Error.Details.Fields[0]

	if fe.Field != "title" || fe.Rule != "required" || fe.Message != "is required" {
		t.Fatalf("unexpected field error: %+v", fe)
	}
}

func TestBindJSONSyntaxError(t *testing.T) {
	r, _ := bindProbe()

	w := postJSON(r, `{"title": }`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d", w.Code)
	}

	var env errEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("bad response body: %v", err)
	}

	if env.Error.Details.JSON != "invalid_json_syntax" {
		t.Fatalf("syntax errors should be flagged, got %+v", env.Error.Details)
	}
}

func TestBindJSONTypeMismatch(t *testing.T) {
	r, _ := bindProbe()

	w := postJSON(r, `{"title": 42, "body": "B"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d", w.Code)
	}

	var env errEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("bad response body: %v", err)
	}

	if env.Error.Details.JSON != "invalid_json_type" {
		t.Fatalf("type mismatches should be flagged, got %+v", env.Error.Details)
	}

	if len(env.Error.Details.Fields) != 1 || env.Error.Details.Fields[0].Field != "title" {
		t.Fatalf("unexpected fields: %+v", env.Error.Details.Fields)
	}
}
