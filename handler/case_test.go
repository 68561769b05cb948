package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/AnTengye/casebrief/model"
	"github.com/AnTengye/casebrief/service"
	"github.com/gin-gonic/gin"
)

func caseRouter(t *testing.T, store *service.CaseStore) *gin.Engine {
	handler := NewCaseHandler(store, service.NewRenderer())
	router := gin.New()
	router.GET("/api/cases", handler.List)
	router.GET("/api/cases/:index", handler.Get)
	router.GET("/api/cases/:index/markdown", handler.Markdown)
	return router
}

func TestCaseHandlerList(t *testing.T) {
	router := caseRouter(t, setupTestStore(t))

	req := httptest.NewRequest("GET", "/api/cases", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var response struct {
		Cases []model.CaseSummary `json:"cases"`
		Total int                 `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if response.Total != 3 || len(response.Cases) != 3 {
		t.Fatalf("Expected 3 cases, got %d of %d", len(response.Cases), response.Total)
	}
	if response.Cases[0].Name != "Smith Vs Jones Logistics Llc" {
		t.Errorf("Unexpected first case: %s", response.Cases[0].Name)
	}
}

func TestCaseHandlerListQuery(t *testing.T) {
	router := caseRouter(t, setupTestStore(t))

	req := httptest.NewRequest("GET", "/api/cases?q=appeals", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var response struct {
		Cases []model.CaseSummary `json:"cases"`
		Total int                 `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if len(response.Cases) != 1 || response.Cases[0].Index != 1 {
		t.Errorf("Expected only case 1, got %+v", response.Cases)
	}
	if response.Total != 3 {
		t.Errorf("Expected total to count the whole store, got %d", response.Total)
	}
}

func TestCaseHandlerGet(t *testing.T) {
	router := caseRouter(t, setupTestStore(t))

	tests := []struct {
		name           string
		path           string
		expectedStatus int
		expectedError  string
	}{
		{"found", "/api/cases/0", http.StatusOK, ""},
		{"broken brief", "/api/cases/2", http.StatusOK, ""},
		{"out of range", "/api/cases/3", http.StatusNotFound, "Case not found"},
		{"negative", "/api/cases/-1", http.StatusNotFound, "Case not found"},
		{"not a number", "/api/cases/abc", http.StatusBadRequest, "Invalid case index"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Fatalf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			var response map[string]interface{}
			if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
				t.Fatalf("Failed to parse response: %v", err)
			}
			if tt.expectedError != "" {
				if response["error"] != tt.expectedError {
					t.Errorf("Expected error %q, got %v", tt.expectedError, response["error"])
				}
				return
			}
			for _, key := range []string{"index", "name", "source_url", "original_text"} {
				if _, ok := response[key]; !ok {
					t.Errorf("Expected %q in response", key)
				}
			}
		})
	}
}

func TestCaseHandlerGetFields(t *testing.T) {
	router := caseRouter(t, setupTestStore(t))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/cases/0", nil))

	var response struct {
		Index int    `json:"index"`
		Name  string `json:"name"`
		Brief struct {
			Citations map[string][]string `json:"citations"`
		} `json:"brief"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if response.Index != 0 || response.Name != "Smith Vs Jones Logistics Llc" {
		t.Errorf("Unexpected case: %+v", response)
	}
	if len(response.Brief.Citations["cases_cited"]) == 0 {
		t.Error("Expected citations in brief")
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/cases/2", nil))
	if !strings.Contains(w.Body.String(), `"brief_error"`) {
		t.Errorf("Expected brief_error for malformed brief, got %s", w.Body.String())
	}
}

func TestCaseHandlerMarkdown(t *testing.T) {
	router := caseRouter(t, setupTestStore(t))

	req := httptest.NewRequest("GET", "/api/cases/0/markdown", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/markdown") {
		t.Errorf("Expected markdown content type, got %s", ct)
	}
	body := w.Body.String()
	if !strings.HasPrefix(body, "# ⚖️ Smith Vs Jones Logistics Llc") {
		t.Errorf("Unexpected markdown: %s", body)
	}
	if strings.Contains(body, "MEMORANDUM OPINION") {
		t.Error("Expected opinion text excluded by default")
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/cases/0/markdown?opinion=true", nil))
	if !strings.Contains(w.Body.String(), "MEMORANDUM OPINION") {
		t.Error("Expected opinion text with ?opinion=true")
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/cases/9/markdown", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}
