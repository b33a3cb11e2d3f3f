// Package seed populates a fresh store with starter content for
// development. It goes through the store contract, so it works identically
// against every backend.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"indiadaily/internal/models"
	"indiadaily/internal/store"
)

// starterCategories are the launch categories. Names are Hindi display
// strings; slugs are fixed English identifiers the frontend links to.
var starterCategories = []struct {
	name string
	slug string
}{
	{"प्रौद्योगिकी", "technology"},
	{"वित्त", "finance"},
	{"व्यापार", "business"},
	{"राजनीति", "politics"},
	{"खेल", "sports"},
}

// Apply inserts the starter categories and articles if the store is empty.
// It is a no-op when any category already exists.
func Apply(ctx context.Context, st store.Store) error {
	existing, err := st.Categories(ctx)
	if err != nil {
		return fmt.Errorf("seed check categories: %w", err)
	}
	if len(existing) > 0 {
		slog.Info("store already seeded, skipping")
		return nil
	}

	bySlug := map[string]string{}
	for _, c := range starterCategories {
		created, err := st.CreateCategory(ctx, c.name, c.slug)
		if err != nil {
			return fmt.Errorf("seed category %q: %w", c.slug, err)
		}
		bySlug[c.slug] = created.ID
	}

	for _, draft := range starterArticles(bySlug) {
		if _, err := st.CreateArticle(ctx, draft); err != nil {
			return fmt.Errorf("seed article %q: %w", draft.Slug, err)
		}
	}

	slog.Info("store seeded with starter content",
		"categories", len(starterCategories),
	)
	return nil
}

// starterArticles returns the two launch articles, wired to the freshly
// created category ids.
func starterArticles(categoryBySlug map[string]string) []models.ArticleDraft {
	return []models.ArticleDraft{
		{
			Title: "भारतीय प्रौद्योगिकी क्षेत्र में AI की क्रांति",
			Slug:  "ai-revolution-indian-technology-sector",
			Content: `<p>कृत्रिम बुद्धिमत्ता (AI) भारतीय प्रौद्योगिकी क्षेत्र में एक नई क्रांति ला रही है। स्टार्टअप से लेकर बड़ी कंपनियों तक, सभी AI के माध्यम से अपने व्यापार को बदल रहे हैं।</p>

<h2>मुख्य विकास</h2>
<p>भारत में AI का उपयोग विभिन्न क्षेत्रों में हो रहा है:</p>
<ul>
<li>स्वास्थ्य सेवा में निदान और उपचार</li>
<li>कृषि में फसल की निगरानी</li>
<li>शिक्षा में व्यक्तिगत शिक्षण</li>
<li>वित्तीय सेवाओं में धोखाधड़ी की रोकथाम</li>
</ul>

<h2>चुनौतियां और अवसर</h2>
<p>जहाँ एक ओर AI नई संभावनाएं प्रदान कर रहा है, वहीं डेटा प्राइवेसी और नौकरियों पर प्रभाव जैसी चुनौतियां भी हैं।</p>`,
			Excerpt:    "कृत्रिम बुद्धिमत्ता भारतीय प्रौद्योगिकी क्षेत्र में क्रांतिकारी बदलाव ला रही है। जानें कैसे AI स्टार्टअप और बड़ी कंपनियों के व्यापार को बदल रहा है।",
			CategoryID: categoryBySlug["technology"],
			Author:     "राहुल शर्मा",
			Language:   "hi",
			Tags:       []string{"AI", "प्रौद्योगिकी", "भारत", "नवाचार"},
			ReadTime:   5,
			Published:  true,
		},
		{
			Title: "डिजिटल पेमेंट्स में नया युग",
			Slug:  "digital-payments-new-era",
			Content: `<p>भारत में डिजिटल पेमेंट्स ने एक नया आयाम प्राप्त किया है। UPI से लेकर डिजिटल वॉलेट तक, भुगतान के तरीके पूरी तरह से बदल गए हैं।</p>

<h2>UPI की सफलता</h2>
<p>यूनिफाइड पेमेंट्स इंटरफेस (UPI) ने भारत में डिजिटल भुगतान को लोकप्रिय बनाया है।</p>

<h2>भविष्य की संभावनाएं</h2>
<p>क्रिप्टोकरेंसी और सेंट्रल बैंक डिजिटल करेंसी (CBDC) के साथ भुगतान के नए तरीके आ रहे हैं।</p>`,
			Excerpt:    "भारत में डिजिटल भुगतान की दुनिया कैसे बदल रही है। UPI से CBDC तक - जानें नए युग की शुरुआत के बारे में।",
			CategoryID: categoryBySlug["finance"],
			Author:     "प्रिया गुप्ता",
			Language:   "hi",
			Tags:       []string{"UPI", "डिजिटल पेमेंट", "फिनटेक"},
			ReadTime:   4,
			Published:  true,
		},
	}
}
