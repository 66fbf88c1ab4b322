package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestStorageReadinessChecker(t *testing.T) {
	dir := t.TempDir()

	status, _ := NewStorageReadinessChecker(dir).CheckReady()
	if status != "ok" {
		t.Errorf("status = %q, ожидается ok", status)
	}

	// Отсутствующий каталог — fail
	status, msg := NewStorageReadinessChecker(filepath.Join(dir, "нет-такого")).CheckReady()
	if status != "fail" || msg == "" {
		t.Errorf("status = %q (%q), ожидается fail с сообщением", status, msg)
	}

	// Путь указывает на файл — fail
	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	status, _ = NewStorageReadinessChecker(file).CheckReady()
	if status != "fail" {
		t.Errorf("status = %q, ожидается fail", status)
	}
}

func TestHealthHandler_HealthLive(t *testing.T) {
	h := NewHealthHandler(NewStorageReadinessChecker(t.TempDir()))

	rec := httptest.NewRecorder()
	h.HealthLive(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("статус = %d, ожидается 200", rec.Code)
	}
	var resp struct {
		Status  string `json:"status"`
		Service string `json:"service"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("декодирование: %v", err)
	}
	if resp.Status != "ok" || resp.Service != "emostore" {
		t.Errorf("ответ = %+v", resp)
	}
}

func TestHealthHandler_HealthReadyFail(t *testing.T) {
	h := NewHealthHandler(NewStorageReadinessChecker("/нет/такого/каталога"))

	rec := httptest.NewRecorder()
	h.HealthReady(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("статус = %d, ожидается 503", rec.Code)
	}
}
