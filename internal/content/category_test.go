package content

import "testing"

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input string
		want  Category
		err   bool
	}{
		{"ML", ML, false},
		{"cv", CV, false},
		{" Nlp ", NLP, false},
		{"rl", RL, false},
		{"podcast", Podcast, false},
		{"", "", false},
		{"robotics", "", true},
	}
	for _, tt := range tests {
		got, err := ParseCategory(tt.input)
		if tt.err {
			if err == nil {
				t.Errorf("ParseCategory(%q): expected error, got %q", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseCategory(%q): unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseCategory(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestImagesFallBackToML(t *testing.T) {
	im := DefaultImages()
	if got := im.For(CV); got != im[CV] {
		t.Errorf("expected CV image, got %q", got)
	}
	if got := im.For("Robotics"); got != im[ML] {
		t.Errorf("expected ML image for unknown category, got %q", got)
	}
	if got := im.For(""); got != im[ML] {
		t.Errorf("expected ML image for empty category, got %q", got)
	}
}

func TestIsArticle(t *testing.T) {
	for _, c := range ArticleCategories() {
		if !c.IsArticle() {
			t.Errorf("%s should be an article category", c)
		}
	}
	if Podcast.IsArticle() {
		t.Error("Podcast should not be an article category")
	}
}
