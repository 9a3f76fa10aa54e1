package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"vera/internal/app/server"
	"vera/internal/auth"
	"vera/internal/domain/registro"
	"vera/internal/platform/config"
	"vera/internal/platform/fetchcache"
	"vera/internal/session"
	"vera/internal/transport/http/client"
)

func startAPI(t *testing.T) string {
	t.Helper()
	app, err := server.New(context.Background(), config.Config{
		Environment:             "test",
		SeedMockData:            true,
		MaxBodyBytes:            1 << 20,
		RateLimitPerMinute:      1000,
		SalaryMin:               registro.DefaultSalaryMinimum,
		SalaryMax:               registro.DefaultSalaryMaximum,
		CalculatedSalaryPercent: registro.DefaultCalculatedPercent,
	})
	if err != nil {
		t.Fatalf("start api: %v", err)
	}
	srv := httptest.NewServer(app.Router)
	t.Cleanup(func() {
		srv.Close()
		app.Close()
	})
	return srv.URL
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("VERA_RETRY_COUNT", "0")
	t.Setenv("VERA_DEBOUNCE", "100ms")
	t.Setenv("LOG_LEVEL", "error")

	root, c := newRootCmd(strings.NewReader(stdin))
	defer c.teardown()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := root.ExecuteContext(ctx)
	return out.String(), err
}

func TestListTable(t *testing.T) {
	api := startAPI(t)
	out, err := run(t, "", "--api", api, "list")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out, "Roberto Alves Pereira") || !strings.Contains(out, "R$ 5.130,00") {
		t.Fatalf("expected newest record with calculated salary, got:\n%s", out)
	}
	if !strings.Contains(out, "Página 1 de 2 · 10 registros") {
		t.Fatalf("expected pager footer, got:\n%s", out)
	}
}

func TestListFilteredJSON(t *testing.T) {
	api := startAPI(t)
	out, err := run(t, "", "--api", api, "--json", "list", "--employee", "silva", "--sort", "salary", "--order", "desc")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	var resp registro.ListResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if resp.Pagination.Total != 2 || resp.Data[0].Salary != 4500 || resp.Data[1].Salary != 4200 {
		t.Fatalf("unexpected listing %+v", resp)
	}
}

func TestListRejectsUnknownSort(t *testing.T) {
	api := startAPI(t)
	_, err := run(t, "", "--api", api, "list", "--sort", "nome")
	if !errors.Is(err, registro.ErrInvalidSortField) {
		t.Fatalf("expected ErrInvalidSortField, got %v", err)
	}
}

func TestCreateGetUpdateDelete(t *testing.T) {
	api := startAPI(t)

	out, err := run(t, "", "--api", api, "--json", "create", "--employee", "Beatriz Lima", "--salary", "3000", "--date", "2024-02-01")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	var created registro.Record
	if err := json.Unmarshal([]byte(out), &created); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if created.CalculatedSalary != 4050 {
		t.Fatalf("expected calculated salary 4050, got %v", created.CalculatedSalary)
	}

	out, err = run(t, "", "--api", api, "get", created.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !strings.Contains(out, "Beatriz Lima") || !strings.Contains(out, "1 de fevereiro de 2024") {
		t.Fatalf("unexpected detail output:\n%s", out)
	}

	_, err = run(t, "", "--api", api, "update", created.ID)
	if !errors.Is(err, errNothingToUpdate) || exitCode(err) != 2 {
		t.Fatalf("expected errNothingToUpdate, got %v", err)
	}

	out, err = run(t, "", "--api", api, "--json", "update", created.ID, "--salary", "3200")
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	var updated registro.Record
	if err := json.Unmarshal([]byte(out), &updated); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if updated.Salary != 3200 || updated.Employee != "Beatriz Lima" {
		t.Fatalf("unexpected update %+v", updated)
	}

	if _, err := run(t, "", "--api", api, "delete", created.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	_, err = run(t, "", "--api", api, "get", created.ID)
	if !errors.Is(err, registro.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if msg := renderError(err); !strings.Contains(msg, "Registro não encontrado") {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestCreateValidation(t *testing.T) {
	api := startAPI(t)
	_, err := run(t, "", "--api", api, "create", "--salary", "-5", "--date", "2099-01-01")
	var fields registro.ValidationErrors
	if !errors.As(err, &fields) || len(fields) != 3 {
		t.Fatalf("expected three field errors, got %v", err)
	}
	if exitCode(err) != 2 {
		t.Fatalf("expected exit code 2, got %d", exitCode(err))
	}
	msg := renderError(err)
	for _, want := range []string{"admissionDate:", "employee:", "salary:"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected %q in %q", want, msg)
		}
	}
}

func TestCreateRejectsNaNSalary(t *testing.T) {
	api := startAPI(t)
	_, err := run(t, "", "--api", api, "create", "--employee", "Ana", "--salary", "NaN", "--date", "2023-01-01")
	var fields registro.ValidationErrors
	if !errors.As(err, &fields) || !fields.Has(registro.FieldSalary, registro.CodeSalaryMustBePositive) {
		t.Fatalf("expected salary field error, got %v", err)
	}
}

func TestExportPDF(t *testing.T) {
	api := startAPI(t)
	path := filepath.Join(t.TempDir(), "silva.pdf")
	out, err := run(t, "", "--api", api, "export", "--employee", "silva", "--out", path)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if !strings.Contains(out, "2 registros exportados") {
		t.Fatalf("unexpected output %q", out)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read pdf: %v", err)
	}
	if !bytes.HasPrefix(raw, []byte("%PDF-")) {
		t.Fatal("expected a PDF file")
	}
}

func TestToken(t *testing.T) {
	out, err := run(t, "", "token", "--secret", "s3cret", "--subject", "op-9", "--ttl", "1h")
	if err != nil {
		t.Fatalf("token failed: %v", err)
	}
	claims, err := auth.ParseToken("s3cret", strings.TrimSpace(out))
	if err != nil {
		t.Fatalf("parse minted token: %v", err)
	}
	if claims.Subject != "op-9" {
		t.Fatalf("expected subject op-9, got %q", claims.Subject)
	}
}

func TestWatchDebouncesInput(t *testing.T) {
	api := startAPI(t)
	out, err := run(t, "J\nJo\nJoão\n", "--api", api, "watch")
	if err != nil {
		t.Fatalf("watch failed: %v", err)
	}
	if !strings.Contains(out, `filtro "João"`) || !strings.Contains(out, "João Silva Santos") {
		t.Fatalf("expected the final search printed, got:\n%s", out)
	}
	if strings.Contains(out, `filtro "Jo"`) || strings.Contains(out, `filtro "J"`) {
		t.Fatalf("expected intermediate input to be debounced, got:\n%s", out)
	}
}

func TestUnavailableAPI(t *testing.T) {
	_, err := run(t, "", "--api", "http://127.0.0.1:1", "list")
	if !errors.Is(err, client.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if msg := renderError(err); !strings.Contains(msg, "API não disponível") {
		t.Fatalf("unexpected message %q", msg)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestStatePrinterLogsRenderFailure(t *testing.T) {
	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&logs, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	p := &statePrinter{cli: &cli{asJSON: true}, w: failingWriter{}}
	p.print(session.ListState{Params: registro.Params{Filters: registro.Filters{Employee: "Ana"}}})

	if !strings.Contains(logs.String(), "render list failed") || !strings.Contains(logs.String(), "disk full") {
		t.Fatalf("expected render failure logged, got %q", logs.String())
	}
}

func TestCachedSearchesCountsListKeys(t *testing.T) {
	cache := fetchcache.New(fetchcache.Options{})
	defer cache.Close()
	fetch := func(context.Context) (any, error) { return registro.ListResponse{}, nil }
	for _, key := range []string{
		registro.ListKey(registro.Params{Filters: registro.Filters{Employee: "Ana"}}),
		registro.ListKey(registro.Params{Filters: registro.Filters{Employee: "Bia"}}),
		registro.DetailKey("r1"),
	} {
		if _, err := cache.Load(context.Background(), key, fetch); err != nil {
			t.Fatalf("load %s: %v", key, err)
		}
	}
	if got := cachedSearches(cache); got != 2 {
		t.Fatalf("expected 2 searches, got %d", got)
	}
}
