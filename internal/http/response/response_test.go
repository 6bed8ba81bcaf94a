package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestErrorUsesHTTPStatusAndRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("request_id", "req-1")

	BadRequest(c, "missing parameter: product_id")

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status want 400 got %d", w.Code)
	}
	var body ErrorBody
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body failed: %v", err)
	}
	if body.Error != "missing parameter: product_id" || body.RequestID != "req-1" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestErrorFallsBackToInternalForNonErrorCode(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Error(c, 0, "boom")

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status want 500 got %d", w.Code)
	}
	if _, ok := decode(t, w)["request_id"]; ok {
		t.Fatalf("request_id should be omitted when absent")
	}
}

func TestHandlerErrorKeepsCauseOutOfBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	cause := errors.New("redis down")
	herr := NewHandlerError(CodeUnavailable, "failed to enqueue cart item", cause)
	if !errors.Is(herr, cause) || !herr.ServerSide() {
		t.Fatalf("unexpected handler error: %+v", herr)
	}
	if herr.Error() != "failed to enqueue cart item: redis down" {
		t.Fatalf("unexpected message: %s", herr.Error())
	}
	herr.Write(c)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status want 503 got %d", w.Code)
	}
	if got := decode(t, w)["error"]; got != "failed to enqueue cart item" {
		t.Fatalf("body should only carry the message, got %v", got)
	}
}

func TestNewHandlerErrorNormalizesStatus(t *testing.T) {
	if herr := NewHandlerError(http.StatusOK, "x", nil); herr.Status != CodeInternal {
		t.Fatalf("status want %d got %d", CodeInternal, herr.Status)
	}
	if NewHandlerError(CodeBadRequest, "x", nil).ServerSide() {
		t.Fatalf("400 is not a server side error")
	}
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body failed: %v", err)
	}
	return body
}
