package client

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vera/internal/domain/registro"
)

func newServer(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL, 5*time.Second, WithToken("tkn"))
}

func TestListRegistrosSendsCleanQuery(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/registros" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if len(q) != 3 || q.Get("employee") != "Ana" || q.Get("page") != "0" || q.Get("limit") != "8" {
			t.Errorf("unexpected query %v", q)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tkn" {
			t.Errorf("expected bearer token, got %q", got)
		}
		_ = json.NewEncoder(w).Encode(registro.ListResponse{
			Data:       []registro.Record{{ID: "1", Employee: "Ana"}},
			Pagination: registro.PaginationMeta{Total: 1, Page: 0, Limit: 8, TotalPages: 1},
		})
	})

	resp, err := c.ListRegistros(context.Background(), registro.Params{
		Filters:    registro.Filters{Employee: "Ana"},
		Pagination: registro.Pagination{Page: 0, Limit: 8},
	})
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(resp.Data) != 1 || resp.Pagination.TotalPages != 1 {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestUpdateSendsPartialPayload(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/registros/42" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if len(body) != 1 || body["salary"] != 5000.0 {
			t.Errorf("expected salary only, got %v", body)
		}
		_ = json.NewEncoder(w).Encode(registro.Record{ID: "42", Salary: 5000})
	})

	rec, err := c.UpdateRegistro(context.Background(), "42", registro.UpdateInput{Salary: registro.Float(5000)})
	if err != nil {
		t.Fatalf("update error: %v", err)
	}
	if rec.Salary != 5000 {
		t.Fatalf("expected updated salary, got %v", rec.Salary)
	}
}

func TestEmptySuccessBody(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	rec, err := c.GetRegistro(context.Background(), "1")
	if err != nil {
		t.Fatalf("expected no error for empty body, got %v", err)
	}
	if rec != (registro.Record{}) {
		t.Fatalf("expected zero record, got %+v", rec)
	}
}

func TestHTTPErrorWithMessage(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"validation failed","code":"VALIDATION_ERROR","fields":{"salary":{"code":"SALARY_MINIMUM","message":"x"}}}`))
	})
	_, err := c.CreateRegistro(context.Background(), registro.CreateInput{Employee: "A", Salary: 0.5, AdmissionDate: "2020-01-01"})

	var httpErr *HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected HTTPError 400, got %v", err)
	}
	if err.Error() != "validation failed" {
		t.Fatalf("expected server message, got %q", err.Error())
	}
	var verrs registro.ValidationErrors
	if !errors.As(err, &verrs) || !verrs.Has(registro.FieldSalary, registro.CodeSalaryMinimum) {
		t.Fatalf("expected field errors to unwrap, got %v", err)
	}
	if Retryable(err) {
		t.Fatal("expected 400 to be permanent")
	}
}

func TestHTTPErrorFallbackMessage(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	})
	_, err := c.GetRegistro(context.Background(), "1")
	if err == nil || err.Error() != "HTTP Error: 502 Bad Gateway" {
		t.Fatalf("expected fallback message, got %v", err)
	}
	if !Retryable(err) {
		t.Fatal("expected 502 to be retryable")
	}
}

func TestNotFound(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	if _, err := c.GetRegistro(context.Background(), "missing"); !errors.Is(err, registro.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on detail, got %v", err)
	}
	if _, err := c.ListRegistros(context.Background(), registro.Params{}); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable on collection 404, got %v", err)
	}
}

func TestConnectionRefusedIsUnavailable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	c := New("http://"+addr, time.Second)
	_, err = c.ListRegistros(context.Background(), registro.Params{})
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestCancelledContextIsNetworkError(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := c.GetRegistro(ctx, "1")
	var netErr *NetworkError
	if !errors.As(err, &netErr) || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected NetworkError wrapping deadline, got %v", err)
	}
	if Retryable(err) {
		t.Fatal("expected cancelled request not to be retried")
	}
}
