package site

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func writeSite(t *testing.T) string {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>portfolio</html>"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "assets"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "assets", "app.js"), []byte("console.log(1)"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "docs"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "docs", "index.html"), []byte("<html>docs</html>"), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestSiteHandler(t *testing.T) {
	Convey("Given a site directory", t, func() {
		mux := http.NewServeMux()
		So(Register(context.Background(), mux, writeSite(t)), ShouldBeNil)

		get := func(target string) *httptest.ResponseRecorder {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, http.NoBody))
			return w
		}

		Convey("Then / serves index.html", func() {
			w := get("/")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "portfolio")
		})

		Convey("And assets are served as files", func() {
			w := get("/assets/app.js")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldEqual, "console.log(1)")
		})

		Convey("And client-side routes fall back to index.html", func() {
			w := get("/projects/folio")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "portfolio")
		})

		Convey("And directories without an index are never listed", func() {
			for _, target := range []string{"/assets/", "/assets"} {
				w := get(target)
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "portfolio")
				So(w.Body.String(), ShouldNotContainSubstring, "app.js")
			}
		})

		Convey("And directories with an index serve it", func() {
			w := get("/docs/")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "docs")
		})

		Convey("And missing assets are 404", func() {
			So(get("/assets/missing.css").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("And writes are 404", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", http.NoBody))
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestSiteWithoutIndex(t *testing.T) {
	Convey("Given a directory without index.html", t, func() {
		err := Register(context.Background(), http.NewServeMux(), t.TempDir())

		Convey("Then Register fails", func() {
			So(errors.Is(err, ErrNoIndex), ShouldBeTrue)
		})
	})
}

func TestSiteHandlerWithNilMux(t *testing.T) {
	Convey("Given a nil mux", t, func() {
		Convey("Then Register panics", func() {
			So(func() {
				_ = Register(context.Background(), nil, t.TempDir())
			}, ShouldPanic)
		})
	})
}
