package applications_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"jobapply-backend/internal/bootstrap"
	"jobapply-backend/internal/shared/config"
)

func newTestApp(t *testing.T, jobsBaseURL string) *bootstrap.App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		Port:            "0",
		Env:             "dev",
		CORSAllowOrigin: []string{"http://localhost:5173"},
		UploadDir:       t.TempDir(),
		JobsAPIBaseURL:  jobsBaseURL,
		JobsAPITimeout:  time.Second,
	}

	app, err := bootstrap.Build(cfg)
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	return app
}

func newJobsStub(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data":{"data":{"id":7,"companyName":"Acme","title":"백엔드 엔지니어","closeYn":"N","endDate":"2099-12-31"}}}`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func applyForm(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, val := range fields {
		if err := writer.WriteField(key, val); err != nil {
			t.Fatalf("write field %s: %v", key, err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func addApplicantHeader(req *http.Request) {
	req.Header.Set("X-Applicant-Id", "42")
}

func TestApplyWorkflow(t *testing.T) {
	jobsStub := newJobsStub(t)
	app := newTestApp(t, jobsStub.URL)
	router := app.Router

	// Draft starts empty.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/apply/7/draft", nil)
	addApplicantHeader(req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("draft: expected 200, got %d body=%s", resp.Code, resp.Body.String())
	}
	var draft struct {
		Exists bool   `json:"exists"`
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&draft); err != nil {
		t.Fatalf("decode draft: %v", err)
	}
	if draft.Exists || draft.Status != "NONE" {
		t.Fatalf("expected empty draft, got %+v", draft)
	}

	// Temp save.
	body, contentType := applyForm(t, map[string]string{
		"jobId": "7",
		"name":  "홍길동",
	})
	req = httptest.NewRequest(http.MethodPost, "/api/v1/apply/temp", body)
	req.Header.Set("Content-Type", contentType)
	addApplicantHeader(req)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("temp save: expected 200, got %d body=%s", resp.Code, resp.Body.String())
	}
	var saved struct {
		OK            bool   `json:"ok"`
		Status        string `json:"status"`
		ApplicationID int64  `json:"applicationId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&saved); err != nil {
		t.Fatalf("decode save: %v", err)
	}
	if !saved.OK || saved.Status != "TEMP" || saved.ApplicationID == 0 {
		t.Fatalf("unexpected save response: %+v", saved)
	}

	// Draft now prefills from the saved snapshot.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/apply/7/draft", nil)
	addApplicantHeader(req)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("draft after save: expected 200, got %d", resp.Code)
	}
	var draftAfter struct {
		Exists bool   `json:"exists"`
		Status string `json:"status"`
		Form   struct {
			Name string `json:"name"`
		} `json:"formData"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&draftAfter); err != nil {
		t.Fatalf("decode draft after save: %v", err)
	}
	if !draftAfter.Exists || draftAfter.Status != "TEMP" || draftAfter.Form.Name != "홍길동" {
		t.Fatalf("unexpected draft after save: %+v", draftAfter)
	}

	// Submit.
	body, contentType = applyForm(t, map[string]string{
		"jobId": "7",
		"name":  "홍길동",
		"phone": "010-1234-5678",
		"email": "hong@example.com",
	})
	req = httptest.NewRequest(http.MethodPost, "/api/v1/apply/submit", body)
	req.Header.Set("Content-Type", contentType)
	addApplicantHeader(req)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("submit: expected 200, got %d body=%s", resp.Code, resp.Body.String())
	}

	// Submitting again conflicts.
	body, contentType = applyForm(t, map[string]string{
		"jobId": "7",
		"name":  "홍길동",
		"phone": "010-1234-5678",
		"email": "hong@example.com",
	})
	req = httptest.NewRequest(http.MethodPost, "/api/v1/apply/submit", body)
	req.Header.Set("Content-Type", contentType)
	addApplicantHeader(req)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("re-submit: expected 409, got %d body=%s", resp.Code, resp.Body.String())
	}
	var conflict struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&conflict); err != nil {
		t.Fatalf("decode conflict: %v", err)
	}
	if conflict.Error.Code != "already_applied" {
		t.Fatalf("expected already_applied, got %s", conflict.Error.Code)
	}
	if conflict.Error.Message != "이미 해당 공고에 지원하셨습니다." {
		t.Fatalf("unexpected conflict message: %s", conflict.Error.Message)
	}

	// Dashboard lists the application enriched with job details.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/apply/my", nil)
	addApplicantHeader(req)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("my applications: expected 200, got %d body=%s", resp.Code, resp.Body.String())
	}
	var page struct {
		Items []struct {
			JobID       int64  `json:"jobId"`
			CompanyName string `json:"companyName"`
			StatusText  string `json:"statusText"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		t.Fatalf("decode page: %v", err)
	}
	if len(page.Items) != 1 {
		t.Fatalf("expected 1 dashboard item, got %d", len(page.Items))
	}
	if page.Items[0].CompanyName != "Acme" || page.Items[0].StatusText != "제출완료" {
		t.Fatalf("unexpected dashboard item: %+v", page.Items[0])
	}
}

func TestApplyRequiresIdentity(t *testing.T) {
	jobsStub := newJobsStub(t)
	app := newTestApp(t, jobsStub.URL)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/apply/7/draft", nil)
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without identity header, got %d", resp.Code)
	}
}

func TestSubmitValidatesRequiredFields(t *testing.T) {
	jobsStub := newJobsStub(t)
	app := newTestApp(t, jobsStub.URL)

	body, contentType := applyForm(t, map[string]string{
		"jobId": "7",
		"phone": "010-1234-5678",
		"email": "hong@example.com",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/apply/submit", body)
	req.Header.Set("Content-Type", contentType)
	addApplicantHeader(req)
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", resp.Code, resp.Body.String())
	}
	var failure struct {
		Error struct {
			Code    string `json:"code"`
			Details struct {
				Field string `json:"field"`
			} `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&failure); err != nil {
		t.Fatalf("decode failure: %v", err)
	}
	if failure.Error.Code != "validation_error" || failure.Error.Details.Field != "name" {
		t.Fatalf("unexpected failure payload: %+v", failure)
	}
}

func TestTempSaveRejectsInvalidJobID(t *testing.T) {
	jobsStub := newJobsStub(t)
	app := newTestApp(t, jobsStub.URL)

	body, contentType := applyForm(t, map[string]string{
		"jobId": "abc",
		"name":  "홍길동",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/apply/temp", body)
	req.Header.Set("Content-Type", contentType)
	addApplicantHeader(req)
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad job id, got %d", resp.Code)
	}
}
