package repository_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	repository "github.com/okian/folio/internal/adapters/repository"
	"github.com/okian/folio/internal/domain/profile"
	. "github.com/smartystreets/goconvey/convey"
)

const seed = `{
  "personal": {
    "name": "Ada",
    "yearsActive": 12,
    "availability": {"status": "open"}
  },
  "professional": {
    "skills": ["Go", "SQL"]
  }
}
`

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	return path
}

func TestFileStore_Load(t *testing.T) {
	Convey("Given a file store", t, func() {
		ctx := context.Background()

		Convey("When the file holds a valid document", func() {
			store := repository.NewFileStore(writeSeed(t, seed))
			doc, err := store.Load(ctx)

			Convey("Then it loads", func() {
				So(err, ShouldBeNil)
				So(doc.Personal["name"], ShouldEqual, "Ada")
				So(doc.Professional["skills"], ShouldResemble, []any{"Go", "SQL"})
			})
		})

		Convey("When the file is missing", func() {
			store := repository.NewFileStore(filepath.Join(t.TempDir(), "nope.json"))
			doc, err := store.Load(ctx)

			Convey("Then ErrIO is returned", func() {
				So(doc, ShouldBeNil)
				So(errors.Is(err, repository.ErrIO), ShouldBeTrue)
				So(errors.Is(err, os.ErrNotExist), ShouldBeTrue)
			})
		})

		Convey("When the file is malformed", func() {
			store := repository.NewFileStore(writeSeed(t, `{"personal": `))
			_, err := store.Load(ctx)

			Convey("Then ErrParse is returned", func() {
				So(errors.Is(err, repository.ErrParse), ShouldBeTrue)
				So(errors.Is(err, profile.ErrMalformed), ShouldBeTrue)
			})
		})

		Convey("When the file has bytes after the document", func() {
			store := repository.NewFileStore(writeSeed(t, `{"personal": {"name": "Ada"}, "professional": {}} }}} not json`))
			doc, err := store.Load(ctx)

			Convey("Then ErrParse is returned", func() {
				So(doc, ShouldBeNil)
				So(errors.Is(err, repository.ErrParse), ShouldBeTrue)
				So(errors.Is(err, profile.ErrMalformed), ShouldBeTrue)
			})
		})

		Convey("When a section is missing", func() {
			store := repository.NewFileStore(writeSeed(t, `{"personal": {}}`))
			_, err := store.Load(ctx)

			Convey("Then ErrParse is returned", func() {
				So(errors.Is(err, repository.ErrParse), ShouldBeTrue)
				So(errors.Is(err, profile.ErrMissingSection), ShouldBeTrue)
			})
		})

		Convey("When the context is already cancelled", func() {
			store := repository.NewFileStore(writeSeed(t, seed))
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := store.Load(cctx)

			Convey("Then the context error is returned", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})
	})
}

func TestFileStore_Save(t *testing.T) {
	Convey("Given a file store with a seeded document", t, func() {
		ctx := context.Background()
		path := writeSeed(t, seed)
		store := repository.NewFileStore(path)

		Convey("When saving an unmodified loaded document", func() {
			doc, err := store.Load(ctx)
			So(err, ShouldBeNil)
			So(store.Save(ctx, doc), ShouldBeNil)

			Convey("Then loading again yields an equal document", func() {
				again, err := store.Load(ctx)
				So(err, ShouldBeNil)
				So(again, ShouldResemble, doc)
			})

			Convey("And numbers keep their literal text", func() {
				raw, err := os.ReadFile(path)
				So(err, ShouldBeNil)
				So(string(raw), ShouldContainSubstring, `"yearsActive": 12`)
			})
		})

		Convey("When saving a modified document", func() {
			doc, err := store.Load(ctx)
			So(err, ShouldBeNil)
			doc.Merge(profile.Personal, profile.Section{"title": "Engineer"})
			So(store.Save(ctx, doc), ShouldBeNil)

			Convey("Then the whole file is replaced", func() {
				again, err := store.Load(ctx)
				So(err, ShouldBeNil)
				So(again.Personal["title"], ShouldEqual, "Engineer")
				So(again.Personal["name"], ShouldEqual, "Ada")
			})
		})

		Convey("When saving a nil document", func() {
			err := store.Save(ctx, nil)

			Convey("Then ErrIO is returned and the file is untouched", func() {
				So(errors.Is(err, repository.ErrIO), ShouldBeTrue)
				raw, _ := os.ReadFile(path)
				So(string(raw), ShouldEqual, seed)
			})
		})

		Convey("When the directory does not exist", func() {
			missing := repository.NewFileStore(filepath.Join(t.TempDir(), "no", "such", "data.json"))
			err := missing.Save(ctx, &profile.Document{Personal: profile.Section{}, Professional: profile.Section{}})

			Convey("Then ErrIO is returned", func() {
				So(errors.Is(err, repository.ErrIO), ShouldBeTrue)
			})
		})
	})
}

func TestFileStore_Options(t *testing.T) {
	Convey("Given a file store with compact output", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "data.json")
		store := repository.NewFileStore(path, repository.WithIndent(""), repository.WithFileMode(0o600))

		err := store.Save(ctx, &profile.Document{
			Personal:     profile.Section{"name": "Ada"},
			Professional: profile.Section{},
		})
		So(err, ShouldBeNil)

		Convey("Then the file is written compactly", func() {
			raw, err := os.ReadFile(path)
			So(err, ShouldBeNil)
			So(string(raw), ShouldEqual, `{"personal":{"name":"Ada"},"professional":{}}`+"\n")
		})

		Convey("And the path is reported", func() {
			So(store.Path(), ShouldEqual, path)
		})
	})
}
