package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	repository "github.com/okian/folio/internal/adapters/repository"
	service "github.com/okian/folio/internal/app"
	"github.com/okian/folio/internal/config"
	"github.com/okian/folio/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

const testDocument = `{
  "personal": {"name": "Ada", "title": "Engineer"},
  "professional": {"skills": ["Go"], "projects": []}
}
`

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func testConfig(t *testing.T) *config.Config {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")
	if err := os.WriteFile(path, []byte(testDocument), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := config.New()
	cfg.DataFile = path
	cfg.Addr = "127.0.0.1:0"
	cfg.AllowedOrigin = "http://localhost:5173"
	return cfg
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestNewHandler(t *testing.T) {
	convey.Convey("Given the assembled handler", t, func() {
		ctx := context.Background()
		cfg := testConfig(t)
		svc := service.New(repository.NewFileStore(cfg.DataFile))
		h, err := newHandler(ctx, cfg, svc)
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then the API answers", func() {
			w := serve(h, httptest.NewRequest(http.MethodGet, "/api/skills", http.NoBody))
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Body.String(), convey.ShouldContainSubstring, `"Go"`)
		})

		convey.Convey("And CORS allows the configured origin", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/health", http.NoBody)
			req.Header.Set("Origin", "http://localhost:5173")
			w := serve(h, req)
			convey.So(w.Header().Get("Access-Control-Allow-Origin"), convey.ShouldEqual, "http://localhost:5173")
			convey.So(w.Header().Get("Access-Control-Allow-Credentials"), convey.ShouldEqual, "true")
		})

		convey.Convey("And preflight requests succeed", func() {
			req := httptest.NewRequest(http.MethodOptions, "/api/personal", http.NoBody)
			req.Header.Set("Origin", "http://localhost:5173")
			req.Header.Set("Access-Control-Request-Method", http.MethodPut)
			req.Header.Set("Access-Control-Request-Headers", "content-type")
			w := serve(h, req)
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Header().Get("Access-Control-Allow-Methods"), convey.ShouldContainSubstring, http.MethodPut)
		})

		convey.Convey("And other origins get no CORS headers", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/health", http.NoBody)
			req.Header.Set("Origin", "http://evil.example")
			w := serve(h, req)
			convey.So(w.Header().Get("Access-Control-Allow-Origin"), convey.ShouldBeEmpty)
		})

		convey.Convey("And metrics are exposed", func() {
			_ = serve(h, httptest.NewRequest(http.MethodGet, "/api/health", http.NoBody))
			w := serve(h, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Body.String(), convey.ShouldContainSubstring, "folio_api_http_requests_total")
		})

		convey.Convey("And API docs are served", func() {
			w := serve(h, httptest.NewRequest(http.MethodGet, "/openapi.yaml", http.NoBody))
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
		})

		convey.Convey("And unknown paths outside /api list the routes", func() {
			w := serve(h, httptest.NewRequest(http.MethodGet, "/nope", http.NoBody))
			convey.So(w.Code, convey.ShouldEqual, http.StatusNotFound)
			convey.So(w.Body.String(), convey.ShouldContainSubstring, "GET /api/profile")
		})
	})

	convey.Convey("Given a site directory", t, func() {
		cfg := testConfig(t)
		cfg.SiteDir = t.TempDir()
		convey.So(os.WriteFile(filepath.Join(cfg.SiteDir, "index.html"), []byte("<html>site</html>"), 0o644), convey.ShouldBeNil)

		h, err := newHandler(context.Background(), cfg, service.New(repository.NewFileStore(cfg.DataFile)))
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then / serves the site and /api still works", func() {
			convey.So(serve(h, httptest.NewRequest(http.MethodGet, "/", http.NoBody)).Body.String(), convey.ShouldContainSubstring, "site")
			convey.So(serve(h, httptest.NewRequest(http.MethodGet, "/api/health", http.NoBody)).Code, convey.ShouldEqual, http.StatusOK)
		})
	})

	convey.Convey("Given a site directory without index.html", t, func() {
		cfg := testConfig(t)
		cfg.SiteDir = t.TempDir()
		_, err := newHandler(context.Background(), cfg, service.New(repository.NewFileStore(cfg.DataFile)))

		convey.Convey("Then the handler is not built", func() {
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestRun(t *testing.T) {
	convey.Convey("Given a missing data file", t, func() {
		cfg := testConfig(t)
		cfg.DataFile = filepath.Join(t.TempDir(), "missing.json")

		convey.Convey("Then run fails before serving", func() {
			err := run(context.Background(), cfg)
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(strings.Contains(err.Error(), "missing.json"), convey.ShouldBeTrue)
		})
	})

	convey.Convey("Given a readable data file", t, func() {
		cfg := testConfig(t)
		ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		defer cancel()

		convey.Convey("Then run serves until the context ends", func() {
			convey.So(run(ctx, cfg), convey.ShouldBeNil)
		})
	})
}

func TestUpdateSystemMetrics(t *testing.T) {
	convey.Convey("Given the runtime sampler", t, func() {
		convey.Convey("Then it updates without panicking", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
		})

		convey.Convey("And the updaters stop with their context", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()
			svc := service.New(repository.NewMemoryStore(nil))

			done := make(chan struct{})
			go func() {
				startSystemMetricsUpdater(ctx)
				startProfileMetricsUpdater(ctx, svc)
				close(done)
			}()

			select {
			case <-done:
				convey.So(true, convey.ShouldBeTrue)
			case <-time.After(time.Second):
				convey.So("updaters still running", convey.ShouldBeEmpty)
			}
		})
	})
}
