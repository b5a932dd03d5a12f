package server

import (
	"bytes"
	"context"
	"log"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"

	"github.com/liliqgyurova/toolplanner/internal/engine"
	"github.com/liliqgyurova/toolplanner/internal/store"
)

func noAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return next
}

func TestCreateToolSurvivesRebuildFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO ai_tools`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	var buf bytes.Buffer
	h := &ToolsHandler{
		Store:  &store.Store{DB: db},
		Logger: log.New(&buf, "[HTTP] ", 0),
		OnChange: func(ctx context.Context) error {
			return context.DeadlineExceeded
		},
	}
	e := echo.New()
	h.Register(e.Group("/api/tools"), noAuth)

	req := httptest.NewRequest(http.MethodPost, "/api/tools", strings.NewReader(`{"name":"Figma AI","description":"design assistant"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(buf.String(), "index rebuild after tool create failed") {
		t.Fatalf("rebuild failure not logged: %q", buf.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCategoriesEndpoint(t *testing.T) {
	h := &ToolsHandler{}
	e := echo.New()
	h.Register(e.Group("/api/tools"), noAuth)

	req := httptest.NewRequest(http.MethodGet, "/api/tools/categories", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	for _, tag := range engine.CapabilityVocabulary {
		if !strings.Contains(rec.Body.String(), tag) {
			t.Errorf("category %s missing from response", tag)
		}
	}
}
