package extract_test

import (
	"strings"
	"testing"

	"github.com/csvhub/recommend/internal/extract"
)

const landingPageHTML = `<!DOCTYPE html>
<html>
<head><title>City Traffic Counts</title></head>
<body>
	<header><nav>Home | Datasets | About</nav></header>
	<main>
		<article>
			<h1>City Traffic Counts 2024</h1>
			<p>Hourly vehicle counts collected from <strong>48 downtown intersections</strong>
			between January and December 2024.</p>
			<p>Sensors report axle counts and estimated speed per lane.</p>
		</article>
	</main>
	<footer><p>Copyright 2024</p></footer>
</body>
</html>`

func TestDescriptionMainContent(t *testing.T) {
	got, err := extract.Description(strings.NewReader(landingPageHTML), "", nil)
	if err != nil {
		t.Fatalf("Description() error = %v", err)
	}

	if !strings.Contains(got, "Hourly vehicle counts") {
		t.Errorf("Description() missing main content: %q", got)
	}
	if !strings.Contains(got, "**48 downtown intersections**") {
		t.Errorf("Description() lost Markdown formatting: %q", got)
	}
}

func TestDescriptionWithSelector(t *testing.T) {
	got, err := extract.Description(strings.NewReader(landingPageHTML), "article", nil)
	if err != nil {
		t.Fatalf("Description() error = %v", err)
	}
	if !strings.Contains(got, "Sensors report axle counts") {
		t.Errorf("Description() with selector missing content: %q", got)
	}
}

func TestDescriptionSelectorNoMatch(t *testing.T) {
	_, err := extract.Description(strings.NewReader(landingPageHTML), ".does-not-exist", nil)
	if err == nil {
		t.Error("Description() with unmatched selector should fail")
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "bold text",
			html: "<p>counts from <b>sensors</b></p>",
			want: "**sensors**",
		},
		{
			name: "plain text passes through",
			html: "plain description",
			want: "plain description",
		},
		{
			name: "list items",
			html: "<ul><li>traffic</li><li>urban</li></ul>",
			want: "- traffic",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extract.Render(tt.html)
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("Render(%q) = %q, want it to contain %q", tt.html, got, tt.want)
			}
		})
	}
}
