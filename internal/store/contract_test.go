// Contract tests run the same suite against every storage backend. The
// memory backend always runs; postgres and mongo are integration tests and
// are skipped when their substrate is not reachable.
package store_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"indiadaily/internal/database"
	"indiadaily/internal/models"
	"indiadaily/internal/store"
	"indiadaily/internal/store/memory"
	"indiadaily/internal/store/mongo"
	"indiadaily/internal/store/postgres"
)

func TestMemoryContract(t *testing.T) {
	runContract(t, memory.New())
}

func TestPostgresContract(t *testing.T) {
	db := testDB(t)
	runContract(t, postgres.New(db))
}

func TestMongoContract(t *testing.T) {
	uri := envOr("MONGODB_URI", "mongodb://localhost:27017")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	st, err := mongo.Connect(ctx, uri, envOr("MONGODB_DB", "indiadaily_test"))
	if err != nil {
		t.Skipf("skipping integration test: mongo not reachable: %v", err)
	}
	t.Cleanup(func() { st.Close(context.Background()) })
	runContract(t, st)
}

// testDSN returns the PostgreSQL connection string for testing, from
// environment variables with development defaults.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "indiadaily")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "indiadaily")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens the test database and runs migrations, skipping the test when
// PostgreSQL is unavailable.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", testDSN())
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// unique suffixes a value so suites can run repeatedly against a persistent
// database without slug collisions.
func unique(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8]
}

func mkCategory(t *testing.T, st store.Store, name, slug string) *models.Category {
	t.Helper()
	c, err := st.CreateCategory(context.Background(), name, slug)
	if err != nil {
		t.Fatalf("create category %q: %v", slug, err)
	}
	return c
}

// mkArticle creates an article and registers its removal.
func mkArticle(t *testing.T, st store.Store, draft models.ArticleDraft) *models.Article {
	t.Helper()
	a, err := st.CreateArticle(context.Background(), draft)
	if err != nil {
		t.Fatalf("create article %q: %v", draft.Slug, err)
	}
	t.Cleanup(func() { st.DeleteArticle(context.Background(), a.ID) })
	return a
}

func draftFor(categoryID, slug, language string, published bool) models.ArticleDraft {
	return models.ArticleDraft{
		Title:      "Title for " + slug,
		Slug:       slug,
		Content:    "<p>content</p>",
		Excerpt:    "excerpt",
		CategoryID: categoryID,
		Author:     "Contract Author",
		Language:   language,
		Tags:       []string{"one", "two"},
		ReadTime:   3,
		Published:  published,
	}
}

func ptr[T any](v T) *T { return &v }

// runContract exercises the full store contract against one backend.
func runContract(t *testing.T, st store.Store) {
	ctx := context.Background()

	if err := st.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}

	t.Run("CategoryRoundTrip", func(t *testing.T) {
		slug := unique("round-trip")
		created := mkCategory(t, st, "Round Trip", slug)
		if created.ID == "" || created.CreatedAt.IsZero() {
			t.Error("id or createdAt not assigned")
		}

		got, err := st.CategoryBySlug(ctx, slug)
		if err != nil {
			t.Fatalf("lookup: %v", err)
		}
		if got == nil || got.ID != created.ID || got.Name != "Round Trip" {
			t.Errorf("lookup: got %+v, want created category", got)
		}

		absent, err := st.CategoryBySlug(ctx, unique("absent"))
		if err != nil || absent != nil {
			t.Errorf("absent slug: got (%+v, %v), want (nil, nil)", absent, err)
		}

		if _, err := st.CreateCategory(ctx, "Other Name", slug); err != store.ErrDuplicateSlug {
			t.Errorf("duplicate slug: got %v, want ErrDuplicateSlug", err)
		}
	})

	t.Run("CategoryOrdering", func(t *testing.T) {
		p := unique("ord")
		// Created out of order on purpose.
		mkCategory(t, st, p+" cherry", unique("cherry"))
		mkCategory(t, st, p+" apple", unique("apple"))
		mkCategory(t, st, p+" banana", unique("banana"))

		all, err := st.Categories(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		var mine []string
		for _, c := range all {
			if len(c.Name) > len(p) && c.Name[:len(p)] == p {
				mine = append(mine, c.Name[len(p)+1:])
			}
		}
		want := []string{"apple", "banana", "cherry"}
		if len(mine) != 3 {
			t.Fatalf("got %d matching categories, want 3", len(mine))
		}
		for i := range want {
			if mine[i] != want[i] {
				t.Fatalf("ordering: got %v, want %v", mine, want)
			}
		}
	})

	t.Run("ArticleRoundTrip", func(t *testing.T) {
		cat := mkCategory(t, st, "Articles", unique("articles"))
		slug := unique("article")
		created := mkArticle(t, st, draftFor(cat.ID, slug, "en", true))

		if created.ID == "" || created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
			t.Error("id or timestamps not assigned")
		}
		if created.ReadTime != 3 || len(created.Tags) != 2 {
			t.Errorf("fields not persisted: %+v", created)
		}

		bySlug, err := st.ArticleBySlug(ctx, slug)
		if err != nil {
			t.Fatalf("by slug: %v", err)
		}
		if bySlug == nil || bySlug.ID != created.ID {
			t.Fatalf("by slug: got %+v", bySlug)
		}
		if bySlug.Category.ID != cat.ID || bySlug.Category.Slug != cat.Slug {
			t.Errorf("embedded category: got %+v, want %+v", bySlug.Category, *cat)
		}

		byID, err := st.ArticleByID(ctx, created.ID)
		if err != nil || byID == nil || byID.Slug != slug {
			t.Errorf("by id: got (%+v, %v)", byID, err)
		}

		if a, err := st.ArticleBySlug(ctx, unique("absent")); err != nil || a != nil {
			t.Errorf("absent slug: got (%+v, %v), want (nil, nil)", a, err)
		}
		if a, err := st.ArticleByID(ctx, "definitely-not-an-id"); err != nil || a != nil {
			t.Errorf("malformed id: got (%+v, %v), want (nil, nil)", a, err)
		}

		if _, err := st.CreateArticle(ctx, draftFor(cat.ID, slug, "en", true)); err != store.ErrDuplicateSlug {
			t.Errorf("duplicate slug: got %v, want ErrDuplicateSlug", err)
		}
	})

	t.Run("PublishFilter", func(t *testing.T) {
		cat := mkCategory(t, st, "Filter", unique("filter"))
		lang := unique("lang")
		mkArticle(t, st, draftFor(cat.ID, unique("pub-a"), lang, true))
		mkArticle(t, st, draftFor(cat.ID, unique("pub-b"), lang, true))
		mkArticle(t, st, draftFor(cat.ID, unique("draft"), lang, false))

		counts := []struct {
			filter store.PublishFilter
			want   int
		}{
			{store.FilterPublished, 2},
			{store.FilterDrafts, 1},
			{store.FilterAny, 3},
		}
		for _, c := range counts {
			got, err := st.Articles(ctx, store.ArticleFilter{Publish: c.filter, Language: lang})
			if err != nil {
				t.Fatalf("query: %v", err)
			}
			if len(got) != c.want {
				t.Errorf("filter %v: got %d, want %d", c.filter, len(got), c.want)
			}
		}
	})

	t.Run("CategoryAndSearchFilter", func(t *testing.T) {
		lang := unique("lang")
		catA := mkCategory(t, st, "Cat A", unique("cat-a"))
		catB := mkCategory(t, st, "Cat B", unique("cat-b"))
		needle := unique("needle")

		a := draftFor(catA.ID, unique("in-a"), lang, true)
		a.Title = "Contains " + needle + " here"
		mkArticle(t, st, a)
		mkArticle(t, st, draftFor(catB.ID, unique("in-b"), lang, true))

		byCat, err := st.Articles(ctx, store.ArticleFilter{Language: lang, CategoryID: catA.ID})
		if err != nil {
			t.Fatalf("by category: %v", err)
		}
		if len(byCat) != 1 || byCat[0].CategoryID != catA.ID {
			t.Errorf("by category: got %d results", len(byCat))
		}

		// Case-insensitive title substring match.
		bySearch, err := st.Articles(ctx, store.ArticleFilter{Language: lang, Search: "CONTAINS " + needle})
		if err != nil {
			t.Fatalf("by search: %v", err)
		}
		if len(bySearch) != 1 {
			t.Errorf("by search: got %d results, want 1", len(bySearch))
		}

		// Unknown category ids yield empty results, not errors.
		none, err := st.Articles(ctx, store.ArticleFilter{Language: lang, CategoryID: "no-such-category"})
		if err != nil {
			t.Fatalf("unknown category: %v", err)
		}
		if len(none) != 0 {
			t.Errorf("unknown category: got %d results, want 0", len(none))
		}
	})

	t.Run("OrderingAndPagination", func(t *testing.T) {
		cat := mkCategory(t, st, "Paging", unique("paging"))
		lang := unique("lang")
		var last *models.Article
		for i := 0; i < 5; i++ {
			last = mkArticle(t, st, draftFor(cat.ID, unique(fmt.Sprintf("page-%d", i)), lang, true))
			// Distinct creation timestamps keep the ordering deterministic.
			time.Sleep(5 * time.Millisecond)
		}

		all, err := st.Articles(ctx, store.ArticleFilter{Language: lang})
		if err != nil {
			t.Fatalf("query: %v", err)
		}
		if len(all) != 5 {
			t.Fatalf("got %d articles, want 5", len(all))
		}
		if all[0].ID != last.ID {
			t.Errorf("first result: got %q, want newest %q", all[0].Slug, last.Slug)
		}
		for i := 1; i < len(all); i++ {
			if all[i].CreatedAt.After(all[i-1].CreatedAt) {
				t.Errorf("ordering violated at index %d", i)
			}
		}

		window, err := st.Articles(ctx, store.ArticleFilter{Language: lang, Limit: 2, Offset: 2})
		if err != nil {
			t.Fatalf("window: %v", err)
		}
		if len(window) != 2 || window[0].ID != all[2].ID || window[1].ID != all[3].ID {
			t.Errorf("window: got %d results, want all[2:4]", len(window))
		}

		empty, err := st.Articles(ctx, store.ArticleFilter{Language: lang, Offset: 50})
		if err != nil {
			t.Fatalf("past end: %v", err)
		}
		if len(empty) != 0 {
			t.Errorf("past end: got %d results, want 0", len(empty))
		}
	})

	t.Run("UpdateMerge", func(t *testing.T) {
		cat := mkCategory(t, st, "Updates", unique("updates"))
		a := mkArticle(t, st, draftFor(cat.ID, unique("upd"), "en", false))

		newSlug := unique("renamed")
		got, err := st.UpdateArticle(ctx, a.ID, models.ArticleUpdate{
			Title:     ptr("Renamed"),
			Slug:      &newSlug,
			Published: ptr(true),
		})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if got.Title != "Renamed" || got.Slug != newSlug || !got.Published {
			t.Errorf("changed fields not applied: %+v", got)
		}
		if got.Content != a.Content || got.Author != a.Author {
			t.Error("untouched fields were modified")
		}
		if len(got.Tags) != 2 {
			t.Errorf("nil tags must keep existing: got %v", got.Tags)
		}

		cleared, err := st.UpdateArticle(ctx, a.ID, models.ArticleUpdate{Tags: []string{}})
		if err != nil {
			t.Fatalf("clear tags: %v", err)
		}
		if len(cleared.Tags) != 0 {
			t.Errorf("empty tags must clear: got %v", cleared.Tags)
		}

		if _, err := st.UpdateArticle(ctx, "definitely-not-an-id", models.ArticleUpdate{Title: ptr("x")}); err != store.ErrNotFound {
			t.Errorf("unknown id: got %v, want ErrNotFound", err)
		}

		other := mkArticle(t, st, draftFor(cat.ID, unique("other"), "en", true))
		taken := other.Slug
		if _, err := st.UpdateArticle(ctx, a.ID, models.ArticleUpdate{Slug: &taken}); err != store.ErrDuplicateSlug {
			t.Errorf("slug collision: got %v, want ErrDuplicateSlug", err)
		}
	})

	t.Run("DeleteIdempotent", func(t *testing.T) {
		cat := mkCategory(t, st, "Deletes", unique("deletes"))
		a := mkArticle(t, st, draftFor(cat.ID, unique("del"), "en", true))

		if err := st.DeleteArticle(ctx, a.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if err := st.DeleteArticle(ctx, a.ID); err != nil {
			t.Errorf("second delete: got %v, want nil", err)
		}
		if err := st.DeleteArticle(ctx, "definitely-not-an-id"); err != nil {
			t.Errorf("malformed id: got %v, want nil", err)
		}
		if got, err := st.ArticleByID(ctx, a.ID); err != nil || got != nil {
			t.Errorf("after delete: got (%+v, %v), want (nil, nil)", got, err)
		}
	})

	t.Run("FeaturedIsNewestPublished", func(t *testing.T) {
		cat := mkCategory(t, st, "Featured", unique("featured"))
		mkArticle(t, st, draftFor(cat.ID, unique("old"), "en", true))
		time.Sleep(5 * time.Millisecond)
		newest := mkArticle(t, st, draftFor(cat.ID, unique("new"), "en", true))
		time.Sleep(5 * time.Millisecond)
		mkArticle(t, st, draftFor(cat.ID, unique("draft"), "en", false))

		got, err := st.FeaturedArticle(ctx)
		if err != nil {
			t.Fatalf("featured: %v", err)
		}
		if got == nil || got.ID != newest.ID {
			t.Errorf("featured: got %+v, want newest published %q", got, newest.Slug)
		}
	})

	t.Run("StatsCountPublished", func(t *testing.T) {
		before, err := st.ArticleStats(ctx)
		if err != nil {
			t.Fatalf("stats: %v", err)
		}

		cat := mkCategory(t, st, "Stats", unique("stats"))
		mkArticle(t, st, draftFor(cat.ID, unique("pub"), "en", true))
		mkArticle(t, st, draftFor(cat.ID, unique("draft"), "en", false))

		after, err := st.ArticleStats(ctx)
		if err != nil {
			t.Fatalf("stats: %v", err)
		}
		if after.TotalArticles != before.TotalArticles+1 {
			t.Errorf("totalArticles: got %d, want %d", after.TotalArticles, before.TotalArticles+1)
		}
		if after.TodaysViews != 0 {
			t.Errorf("todaysViews from store: got %d, want 0", after.TodaysViews)
		}
	})
}
