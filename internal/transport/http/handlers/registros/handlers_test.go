package registrohandler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"vera/internal/domain/registro"
	"vera/internal/transport/http/api"
	"vera/internal/transport/http/middleware"
)

func newTestRouter(t *testing.T) (http.Handler, *registro.Service) {
	t.Helper()
	v := registro.NewValidator(registro.DefaultSalaryBounds())
	v.Now = func() time.Time { return time.Date(2025, time.June, 10, 12, 0, 0, 0, time.Local) }
	svc := registro.NewService(registro.NewMemoryStore(), v, 10)
	if err := svc.Seed(context.Background(), registro.DemoRecords()); err != nil {
		t.Fatalf("seed error: %v", err)
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	NewHandler(svc).RegisterRoutes(r)
	return r, svc
}

func serve(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) api.Error {
	t.Helper()
	var body api.Error
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body
}

func TestListRegistros(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := serve(h, http.MethodGet, "/registros?employee=silva&page=0&limit=8&orderBy=salary&order=asc", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp registro.ListResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if resp.Pagination.Total != 2 || resp.Pagination.Page != 0 || resp.Pagination.Limit != 8 || resp.Pagination.TotalPages != 1 {
		t.Fatalf("unexpected pagination %+v", resp.Pagination)
	}
	if resp.Data[0].Salary != 4200 || resp.Data[1].Salary != 4500 {
		t.Fatalf("expected salary ascending, got %v then %v", resp.Data[0].Salary, resp.Data[1].Salary)
	}
	if resp.Data[0].CalculatedSalary != 4620 {
		t.Fatalf("expected calculated salary 4620, got %v", resp.Data[0].CalculatedSalary)
	}
}

func TestListRegistrosRejectsBadQuery(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := serve(h, http.MethodGet, "/registros?orderBy=nome&startSalary=x", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	body := decodeError(t, rec)
	if body.Code != "VALIDATION_ERROR" || len(body.Fields) != 2 {
		t.Fatalf("unexpected error body %+v", body)
	}
	if body.RequestID == "" {
		t.Fatal("expected request id in error body")
	}
}

func TestListRegistrosHugePage(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := serve(h, http.MethodGet, "/registros?page=9223372036854775807&limit=8", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp registro.ListResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(resp.Data) != 0 || resp.Pagination.Total != 10 {
		t.Fatalf("expected an empty page past the end, got %d records of %d", len(resp.Data), resp.Pagination.Total)
	}
	if resp.Pagination.Page != registro.MaxOffset/8 {
		t.Fatalf("expected page clamped to %d, got %d", registro.MaxOffset/8, resp.Pagination.Page)
	}
}

func TestCreateRegistro(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := serve(h, http.MethodPost, "/registros", `{"employee":"  Beatriz Lima ","salary":3000,"admissionDate":"2024-02-01"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created registro.Record
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if created.ID == "" || created.Employee != "Beatriz Lima" || created.CalculatedSalary != 3300 {
		t.Fatalf("unexpected record %+v", created)
	}
	if created.CalculatedAdmissionDate != "1 de fevereiro de 2024" {
		t.Fatalf("unexpected calculated admission date %q", created.CalculatedAdmissionDate)
	}

	rec = serve(h, http.MethodGet, "/registros/"+created.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected created record to be readable, got %d", rec.Code)
	}
}

func TestCreateRegistroValidation(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := serve(h, http.MethodPost, "/registros", `{"employee":"","salary":-5,"admissionDate":"2099-01-01"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	body := decodeError(t, rec)
	for field, code := range map[string]string{
		registro.FieldEmployee:      registro.CodeEmployeeNameRequired,
		registro.FieldSalary:        registro.CodeSalaryMustBePositive,
		registro.FieldAdmissionDate: registro.CodeAdmissionDateFuture,
	} {
		if !body.Fields.Has(field, code) {
			t.Fatalf("expected %s on %s, got %+v", code, field, body.Fields)
		}
	}
}

func TestCreateRegistroInvalidJSON(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := serve(h, http.MethodPost, "/registros", `{"salary":"lots"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body := decodeError(t, rec); body.Code != "invalid_payload" {
		t.Fatalf("expected invalid_payload, got %+v", body)
	}
}

func TestUpdateRegistro(t *testing.T) {
	h, _ := newTestRouter(t)
	id := registro.DemoRecords()[0].ID

	rec := serve(h, http.MethodPatch, "/registros/"+id, `{"salary":5000}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var updated registro.Record
	if err := json.NewDecoder(rec.Body).Decode(&updated); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if updated.Salary != 5000 || updated.CalculatedSalary != 5500 || updated.Employee != "João Silva Santos" {
		t.Fatalf("unexpected record %+v", updated)
	}

	if rec := serve(h, http.MethodPatch, "/registros/"+id, `{}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty update, got %d", rec.Code)
	}
	if rec := serve(h, http.MethodPatch, "/registros/missing", `{"salary":5000}`); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing record, got %d", rec.Code)
	}
}

func TestDeleteRegistro(t *testing.T) {
	h, _ := newTestRouter(t)
	id := registro.DemoRecords()[1].ID

	rec := serve(h, http.MethodDelete, "/registros/"+id, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", rec.Body.String())
	}
	if rec := serve(h, http.MethodGet, "/registros/"+id, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
	if rec := serve(h, http.MethodDelete, "/registros/"+id, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", rec.Code)
	}
}
