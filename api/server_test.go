package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/junyangz/cninsight/internal/config"
	"github.com/junyangz/cninsight/internal/normalize"
	"github.com/junyangz/cninsight/internal/service"
	"github.com/junyangz/cninsight/internal/source"
	"github.com/junyangz/cninsight/internal/store"
	"github.com/junyangz/cninsight/pkg/models"
)

// fakeFetcher serves one coherent annual period for every statement type.
type fakeFetcher struct{}

func (fakeFetcher) Fetch(_ context.Context, company models.CompanyID, t models.StatementType) ([]source.RawPeriodRecord, error) {
	if err := source.ValidateCode(company); err != nil {
		return nil, err
	}
	switch t {
	case models.BalanceSheet:
		return []source.RawPeriodRecord{{
			source.PeriodDateLabel: "20231231",
			"资产总计":                 "2000",
			"负债合计":                 "800",
			"所有者权益合计":              "1200",
		}}, nil
	case models.IncomeStatement:
		return []source.RawPeriodRecord{{
			source.PeriodDateLabel: "20231231",
			"营业收入":                 "1000",
			"净利润":                  "200",
		}}, nil
	default:
		return []source.RawPeriodRecord{{
			source.PeriodDateLabel: "20231231",
			"经营活动产生的现金流量净额":        "250",
		}}, nil
	}
}

type fakeProfile struct{}

func (fakeProfile) CompanyName(context.Context, models.CompanyID) (string, error) {
	return "测试公司", nil
}

func testServer(t *testing.T) *Server {
	t.Helper()
	repo, err := store.Open(filepath.Join(t.TempDir(), "statements.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { repo.Close() })

	log := zerolog.Nop()
	facade := service.New(fakeFetcher{}, fakeProfile{}, normalize.New(log), repo, log)
	return NewServer(&config.Config{}, facade, log)
}

func doRequest(t *testing.T, srv *Server, method, path string) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	var resp APIResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return rec, resp
}

func TestHandleHealth(t *testing.T) {
	srv := testServer(t)
	rec, resp := doRequest(t, srv, http.MethodGet, "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !resp.Success {
		t.Error("health should report success")
	}
}

func TestHandleCompaniesEmpty(t *testing.T) {
	srv := testServer(t)
	rec, resp := doRequest(t, srv, http.MethodGet, "/api/v1/companies")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	list, ok := resp.Data.([]interface{})
	if !ok || len(list) != 0 {
		t.Errorf("data = %v, want empty list", resp.Data)
	}
}

func TestDownloadThenAnalyze(t *testing.T) {
	srv := testServer(t)

	rec, resp := doRequest(t, srv, http.MethodPost, "/api/v1/companies/600519/download")
	if rec.Code != http.StatusOK {
		t.Fatalf("download status = %d: %s", rec.Code, resp.Error)
	}
	data := resp.Data.(map[string]interface{})
	if data["succeeded"].(float64) != 3 {
		t.Errorf("succeeded = %v, want 3", data["succeeded"])
	}

	rec, resp = doRequest(t, srv, http.MethodGet, "/api/v1/companies/600519/analysis?kind=profitability")
	if rec.Code != http.StatusOK {
		t.Fatalf("analysis status = %d: %s", rec.Code, resp.Error)
	}
	data = resp.Data.(map[string]interface{})
	if data["name"] != "测试公司" {
		t.Errorf("name = %v", data["name"])
	}
	results := data["results"].([]interface{})
	if len(results) == 0 {
		t.Fatal("no analysis results")
	}

	rec, resp = doRequest(t, srv, http.MethodGet, "/api/v1/companies/600519/periods")
	if rec.Code != http.StatusOK {
		t.Fatalf("periods status = %d", rec.Code)
	}
	periods := resp.Data.([]interface{})
	if len(periods) != 1 || periods[0] != "2023-12-31" {
		t.Errorf("periods = %v", periods)
	}
}

func TestErrorMapping(t *testing.T) {
	srv := testServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		status int
	}{
		{"invalid code on download", http.MethodPost, "/api/v1/companies/999999/download", http.StatusBadRequest},
		{"invalid code on analysis", http.MethodGet, "/api/v1/companies/abc/analysis", http.StatusBadRequest},
		{"unknown kind", http.MethodGet, "/api/v1/companies/600519/analysis?kind=bogus", http.StatusBadRequest},
		{"bad from date", http.MethodGet, "/api/v1/companies/600519/analysis?from=20231231", http.StatusBadRequest},
		{"no stored data", http.MethodGet, "/api/v1/companies/600519/analysis", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := doRequest(t, srv, tt.method, tt.path)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			if resp.Success {
				t.Error("error responses must not report success")
			}
			if resp.Error == "" {
				t.Error("error responses must carry a message")
			}
		})
	}
}

func TestHandleKinds(t *testing.T) {
	srv := testServer(t)
	rec, resp := doRequest(t, srv, http.MethodGet, "/api/v1/analysis/kinds")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	kinds := resp.Data.([]interface{})
	if len(kinds) != 7 {
		t.Errorf("got %d kinds, want 7", len(kinds))
	}
}
