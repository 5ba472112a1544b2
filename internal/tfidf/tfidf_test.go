package tfidf

import (
	"math"
	"testing"
)

func TestFit(t *testing.T) {
	tests := []struct {
		name      string
		documents []string
		wantRows  int
	}{
		{
			name:      "empty corpus",
			documents: []string{},
			wantRows:  0,
		},
		{
			name:      "single document",
			documents: []string{"hello world"},
			wantRows:  1,
		},
		{
			name:      "multiple documents",
			documents: []string{"hello world", "goodbye world", "hello goodbye"},
			wantRows:  3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewVectorizer(SplitTokenizer)
			v.Fit(tt.documents)
			if v.Rows() != tt.wantRows {
				t.Errorf("Rows() = %d, want %d", v.Rows(), tt.wantRows)
			}
			if len(v.norms) != tt.wantRows {
				t.Errorf("norm count = %d, want %d", len(v.norms), tt.wantRows)
			}
		})
	}
}

func TestRefitReplacesState(t *testing.T) {
	v := NewVectorizer(SplitTokenizer)
	v.Fit([]string{"alpha beta", "beta gamma", "gamma delta"})
	v.Fit([]string{"epsilon zeta"})

	if v.Rows() != 1 {
		t.Errorf("Rows() after refit = %d, want 1", v.Rows())
	}
	if _, ok := v.docFreq["alpha"]; ok {
		t.Error("refit retained stale vocabulary")
	}
}

func TestCosine(t *testing.T) {
	documents := []string{
		"java advanced programming language tutorial",
		"python scripting numeric libraries",
		"java advanced programming language reference",
	}
	v := NewVectorizer(SplitTokenizer)
	v.Fit(documents)

	t.Run("self similarity is one", func(t *testing.T) {
		if got := v.Cosine(0, 0); math.Abs(got-1.0) > 1e-9 {
			t.Errorf("Cosine(0, 0) = %f, want 1.0", got)
		}
	})

	t.Run("symmetric", func(t *testing.T) {
		if a, b := v.Cosine(0, 2), v.Cosine(2, 0); math.Abs(a-b) > 1e-9 {
			t.Errorf("Cosine not symmetric: %f vs %f", a, b)
		}
	})

	t.Run("overlapping documents score higher", func(t *testing.T) {
		near, far := v.Cosine(0, 2), v.Cosine(0, 1)
		if near <= far {
			t.Errorf("Cosine(0, 2) = %f should exceed Cosine(0, 1) = %f", near, far)
		}
	})

	t.Run("disjoint documents score zero", func(t *testing.T) {
		if got := v.Cosine(0, 1); got != 0 {
			t.Errorf("Cosine(0, 1) = %f, want 0 for disjoint vocabularies", got)
		}
	})

	t.Run("out of range index", func(t *testing.T) {
		if got := v.Cosine(0, 10); got != 0 {
			t.Errorf("Cosine(0, 10) = %f, want 0", got)
		}
	})
}

func TestSimilarities(t *testing.T) {
	documents := []string{
		"machine learning algorithms overview",
		"machine learning deep networks",
		"gardening tips tomato soil",
	}
	v := NewVectorizer(SplitTokenizer)
	v.Fit(documents)

	scores := v.Similarities(0)
	if len(scores) != 3 {
		t.Fatalf("Similarities() length = %d, want 3", len(scores))
	}
	if math.Abs(scores[0]-1.0) > 1e-9 {
		t.Errorf("self score = %f, want 1.0", scores[0])
	}
	if scores[1] <= scores[2] {
		t.Errorf("related doc score %f should exceed unrelated doc score %f", scores[1], scores[2])
	}

	if got := v.Similarities(-1); got != nil {
		t.Errorf("Similarities(-1) = %v, want nil", got)
	}
}

func TestEmptyDocumentHasZeroNorm(t *testing.T) {
	v := NewVectorizer(SplitTokenizer)
	v.Fit([]string{"alpha beta", "", "alpha gamma"})

	if got := v.Cosine(0, 1); got != 0 {
		t.Errorf("Cosine against empty document = %f, want 0", got)
	}
	if got := v.Cosine(1, 1); got != 0 {
		t.Errorf("empty document self-similarity = %f, want 0", got)
	}
}

func TestWordTokenizer(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "empty string",
			text: "",
			want: nil,
		},
		{
			name: "mixed case with punctuation",
			text: "Smith, Jane; DOE-John",
			want: []string{"smith", "jane", "doe", "john"},
		},
		{
			name: "underscores kept",
			text: "machine_learning tools",
			want: []string{"machine_learning", "tools"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WordTokenizer(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("WordTokenizer() length = %d, want %d (%v)", len(got), len(tt.want), got)
			}
			for i, tok := range got {
				if tok != tt.want[i] {
					t.Errorf("WordTokenizer() token[%d] = %q, want %q", i, tok, tt.want[i])
				}
			}
		})
	}
}

func TestTermFrequency(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		want   map[string]float64
	}{
		{
			name:   "empty tokens",
			tokens: []string{},
			want:   map[string]float64{},
		},
		{
			name:   "multiple tokens",
			tokens: []string{"hello", "world", "hello"},
			want:   map[string]float64{"hello": 2.0 / 3.0, "world": 1.0 / 3.0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := termFrequency(tt.tokens)
			if len(got) != len(tt.want) {
				t.Fatalf("termFrequency() length = %d, want %d", len(got), len(tt.want))
			}
			for term, wantFreq := range tt.want {
				if math.Abs(got[term]-wantFreq) > 0.0001 {
					t.Errorf("termFrequency() term %s = %f, want %f", term, got[term], wantFreq)
				}
			}
		})
	}
}
