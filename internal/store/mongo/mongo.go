// Package mongo implements the content store over a MongoDB database with
// two collections, categories and articles. Articles reference categories by
// ObjectID; reads populate the referenced category per result so renames are
// visible immediately. Slug uniqueness is enforced by unique indexes.
package mongo

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"indiadaily/internal/models"
	"indiadaily/internal/store"
)

// Store runs the repository contract against MongoDB.
type Store struct {
	client     *mongo.Client
	categories *mongo.Collection
	articles   *mongo.Collection
}

// Connect dials MongoDB, verifies the connection, and ensures the unique
// slug indexes exist.
func Connect(ctx context.Context, uri, dbName string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(dbName)
	s := &Store{
		client:     client,
		categories: db.Collection("categories"),
		articles:   db.Collection("articles"),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.categories.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("mongo ensure category slug index: %w", err)
	}

	_, err = s.articles.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "published", Value: 1},
				{Key: "createdAt", Value: -1},
				{Key: "_id", Value: -1},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("mongo ensure article indexes: %w", err)
	}
	return nil
}

// categoryDoc is the stored shape of a category.
type categoryDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Slug      string             `bson:"slug"`
	CreatedAt time.Time          `bson:"createdAt"`
}

// articleDoc is the stored shape of an article. CategoryID is a reference;
// the category itself is never embedded in the document.
type articleDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Title         string             `bson:"title"`
	Slug          string             `bson:"slug"`
	Content       string             `bson:"content"`
	Excerpt       string             `bson:"excerpt"`
	FeaturedImage *string            `bson:"featuredImage"`
	CategoryID    primitive.ObjectID `bson:"categoryId"`
	Author        string             `bson:"author"`
	AuthorAvatar  *string            `bson:"authorAvatar"`
	Language      string             `bson:"language"`
	Tags          []string           `bson:"tags"`
	ReadTime      int                `bson:"readTime"`
	Published     bool               `bson:"published"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

func (d categoryDoc) toModel() models.Category {
	return models.Category{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Slug:      d.Slug,
		CreatedAt: d.CreatedAt,
	}
}

func (d articleDoc) toModel() models.Article {
	return models.Article{
		ID:            d.ID.Hex(),
		Title:         d.Title,
		Slug:          d.Slug,
		Content:       d.Content,
		Excerpt:       d.Excerpt,
		FeaturedImage: d.FeaturedImage,
		CategoryID:    d.CategoryID.Hex(),
		Author:        d.Author,
		AuthorAvatar:  d.AuthorAvatar,
		Language:      d.Language,
		Tags:          d.Tags,
		ReadTime:      d.ReadTime,
		Published:     d.Published,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

// Categories returns all categories ordered by name. The "en" collation gives
// a Unicode-aware ordering instead of raw byte comparison.
func (s *Store) Categories(ctx context.Context) ([]models.Category, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetCollation(&options.Collation{Locale: "en"})

	cursor, err := s.categories.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo list categories: %w", err)
	}
	defer cursor.Close(ctx)

	items := []models.Category{}
	for cursor.Next(ctx) {
		var d categoryDoc
		if err := cursor.Decode(&d); err != nil {
			return nil, fmt.Errorf("mongo decode category: %w", err)
		}
		items = append(items, d.toModel())
	}
	return items, cursor.Err()
}

func (s *Store) CategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var d categoryDoc
	err := s.categories.FindOne(ctx, bson.M{"slug": slug}).Decode(&d)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("mongo find category by slug: %w", err)
	}
	c := d.toModel()
	return &c, nil
}

func (s *Store) CreateCategory(ctx context.Context, name, slug string) (*models.Category, error) {
	d := categoryDoc{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Slug:      slug,
		CreatedAt: time.Now(),
	}
	if _, err := s.categories.InsertOne(ctx, d); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, store.ErrDuplicateSlug
		}
		return nil, fmt.Errorf("mongo create category: %w", err)
	}
	c := d.toModel()
	return &c, nil
}

func (s *Store) Articles(ctx context.Context, filter store.ArticleFilter) ([]models.ArticleWithCategory, error) {
	filter = filter.Normalize()

	query := bson.M{}
	switch filter.Publish {
	case store.FilterPublished:
		query["published"] = true
	case store.FilterDrafts:
		query["published"] = false
	}
	if filter.CategoryID != "" {
		catID, err := primitive.ObjectIDFromHex(filter.CategoryID)
		if err != nil {
			return []models.ArticleWithCategory{}, nil
		}
		query["categoryId"] = catID
	}
	if filter.Language != "" {
		query["language"] = filter.Language
	}
	if filter.Search != "" {
		query["title"] = primitive.Regex{
			Pattern: regexp.QuoteMeta(filter.Search),
			Options: "i",
		}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(filter.Offset)).
		SetLimit(int64(filter.Limit))

	cursor, err := s.articles.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo list articles: %w", err)
	}
	defer cursor.Close(ctx)

	docs := []articleDoc{}
	for cursor.Next(ctx) {
		var d articleDoc
		if err := cursor.Decode(&d); err != nil {
			return nil, fmt.Errorf("mongo decode article: %w", err)
		}
		docs = append(docs, d)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return s.populate(ctx, docs)
}

// populate resolves the category reference for each article with one $in
// query per page of results.
func (s *Store) populate(ctx context.Context, docs []articleDoc) ([]models.ArticleWithCategory, error) {
	ids := make([]primitive.ObjectID, 0, len(docs))
	seen := map[primitive.ObjectID]bool{}
	for _, d := range docs {
		if !seen[d.CategoryID] {
			seen[d.CategoryID] = true
			ids = append(ids, d.CategoryID)
		}
	}

	byID := map[primitive.ObjectID]models.Category{}
	if len(ids) > 0 {
		cursor, err := s.categories.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
		if err != nil {
			return nil, fmt.Errorf("mongo populate categories: %w", err)
		}
		defer cursor.Close(ctx)
		for cursor.Next(ctx) {
			var d categoryDoc
			if err := cursor.Decode(&d); err != nil {
				return nil, fmt.Errorf("mongo decode category: %w", err)
			}
			byID[d.ID] = d.toModel()
		}
		if err := cursor.Err(); err != nil {
			return nil, err
		}
	}

	out := make([]models.ArticleWithCategory, 0, len(docs))
	for _, d := range docs {
		out = append(out, models.ArticleWithCategory{
			Article:  d.toModel(),
			Category: byID[d.CategoryID],
		})
	}
	return out, nil
}

func (s *Store) ArticleBySlug(ctx context.Context, slug string) (*models.ArticleWithCategory, error) {
	var d articleDoc
	err := s.articles.FindOne(ctx, bson.M{"slug": slug}).Decode(&d)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("mongo find article by slug: %w", err)
	}
	return s.populateOne(ctx, d)
}

func (s *Store) ArticleByID(ctx context.Context, id string) (*models.ArticleWithCategory, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	var d articleDoc
	err = s.articles.FindOne(ctx, bson.M{"_id": oid}).Decode(&d)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("mongo find article by id: %w", err)
	}
	return s.populateOne(ctx, d)
}

func (s *Store) populateOne(ctx context.Context, d articleDoc) (*models.ArticleWithCategory, error) {
	results, err := s.populate(ctx, []articleDoc{d})
	if err != nil {
		return nil, err
	}
	return &results[0], nil
}

func (s *Store) CreateArticle(ctx context.Context, draft models.ArticleDraft) (*models.Article, error) {
	catID, err := primitive.ObjectIDFromHex(draft.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("mongo create article: bad category id %q: %w", draft.CategoryID, err)
	}

	now := time.Now()
	d := articleDoc{
		ID:            primitive.NewObjectID(),
		Title:         draft.Title,
		Slug:          draft.Slug,
		Content:       draft.Content,
		Excerpt:       draft.Excerpt,
		FeaturedImage: draft.FeaturedImage,
		CategoryID:    catID,
		Author:        draft.Author,
		AuthorAvatar:  draft.AuthorAvatar,
		Language:      draft.Language,
		Tags:          draft.Tags,
		ReadTime:      draft.ReadTime,
		Published:     draft.Published,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if _, err := s.articles.InsertOne(ctx, d); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, store.ErrDuplicateSlug
		}
		return nil, fmt.Errorf("mongo create article: %w", err)
	}
	a := d.toModel()
	return &a, nil
}

func (s *Store) UpdateArticle(ctx context.Context, id string, upd models.ArticleUpdate) (*models.Article, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, store.ErrNotFound
	}

	var d articleDoc
	err = s.articles.FindOne(ctx, bson.M{"_id": oid}).Decode(&d)
	if err == mongo.ErrNoDocuments {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongo load article for update: %w", err)
	}

	a := d.toModel()
	upd.Apply(&a)
	a.UpdatedAt = time.Now()

	catID := d.CategoryID
	if upd.CategoryID != nil {
		catID, err = primitive.ObjectIDFromHex(*upd.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("mongo update article: bad category id %q: %w", *upd.CategoryID, err)
		}
	}

	d = articleDoc{
		ID:            oid,
		Title:         a.Title,
		Slug:          a.Slug,
		Content:       a.Content,
		Excerpt:       a.Excerpt,
		FeaturedImage: a.FeaturedImage,
		CategoryID:    catID,
		Author:        a.Author,
		AuthorAvatar:  a.AuthorAvatar,
		Language:      a.Language,
		Tags:          a.Tags,
		ReadTime:      a.ReadTime,
		Published:     a.Published,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
	if _, err := s.articles.ReplaceOne(ctx, bson.M{"_id": oid}, d); err != nil {
		// The unique slug index rejects a re-derived slug that collides
		// with a different article.
		if mongo.IsDuplicateKeyError(err) {
			return nil, store.ErrDuplicateSlug
		}
		return nil, fmt.Errorf("mongo update article: %w", err)
	}
	out := d.toModel()
	return &out, nil
}

// DeleteArticle removes the article. Unknown and malformed ids are no-ops.
func (s *Store) DeleteArticle(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	if _, err := s.articles.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return fmt.Errorf("mongo delete article: %w", err)
	}
	return nil
}

func (s *Store) FeaturedArticle(ctx context.Context) (*models.ArticleWithCategory, error) {
	results, err := s.Articles(ctx, store.ArticleFilter{Publish: store.FilterPublished, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return &results[0], nil
}

func (s *Store) ArticleStats(ctx context.Context) (models.ArticleStats, error) {
	total, err := s.articles.CountDocuments(ctx, bson.M{"published": true})
	if err != nil {
		return models.ArticleStats{}, fmt.Errorf("mongo count published articles: %w", err)
	}
	return models.ArticleStats{TotalArticles: int(total)}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
