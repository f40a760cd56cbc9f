package filter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/newsdigest/pkg/domain"
)

func TestMatcher(t *testing.T) {
	m := NewMatcher([]string{"process", "deep learning", "C++", "  ", "café", "深度学习", "Ökonomie", "AI"})

	tests := []struct {
		title string
		want  bool
	}{
		{"A new process for training", true},
		{"Preprocessing pipelines at scale", false},
		{"Processes and threads", false},
		{"DEEP LEARNING for everyone", true},
		{"Deep-learning is not the same phrase", false},
		{"Why C++ still matters", true},
		{"Café culture meets robots", true},
		{"cafés everywhere", false},
		{"深度学习", true},
		{"新的 深度学习 方法", true},
		{"Ökonomie of models", true},
		{"AIé is not a word", false},
		{"(AI) in brackets", true},
		{"FAIR releases a model", false},
		{"unrelated title", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Match(tt.title))
		})
	}

	t.Run("empty keywords match nothing", func(t *testing.T) {
		assert.False(t, NewMatcher(nil).Match("anything at all"))
		assert.False(t, NewMatcher([]string{"", " "}).Match(""))
		var nilMatcher *Matcher
		assert.False(t, nilMatcher.Match("x"))
	})

	t.Run("regex metacharacters are literal", func(t *testing.T) {
		rm := NewMatcher([]string{"a.b"})
		assert.True(t, rm.Match("about a.b testing"))
		assert.False(t, rm.Match("about axb testing"))
	})
}

func TestIsRelevant(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	m := NewMatcher([]string{"machine learning"})
	at := func(d time.Duration) *time.Time {
		ts := now.Add(-d)
		return &ts
	}

	tests := []struct {
		name  string
		entry domain.Entry
		want  bool
	}{
		{"fresh match", domain.Entry{Title: "Machine learning news", PublishedAt: at(time.Hour)}, true},
		{"23h59m old", domain.Entry{Title: "Machine learning news", PublishedAt: at(23*time.Hour + 59*time.Minute)}, true},
		{"exactly 24h old", domain.Entry{Title: "Machine learning news", PublishedAt: at(24 * time.Hour)}, false},
		{"older than threshold", domain.Entry{Title: "Machine learning news", PublishedAt: at(48 * time.Hour)}, false},
		{"no keyword", domain.Entry{Title: "Cooking news", PublishedAt: at(time.Hour)}, false},
		{"no date", domain.Entry{Title: "Machine learning news"}, false},
		{"unparseable date", domain.Entry{Title: "Machine learning news", Published: "sometime last week"}, false},
		{"raw rfc1123 date", domain.Entry{Title: "Machine learning news", Published: "Fri, 10 May 2024 09:00:00 GMT"}, true},
		{"raw naive date as utc", domain.Entry{Title: "Machine learning news", Published: "2024-05-09 12:00:01"}, true},
		{"raw naive date too old", domain.Entry{Title: "Machine learning news", Published: "2024-05-09 12:00:00"}, false},
		{"future date", domain.Entry{Title: "Machine learning news", PublishedAt: at(-time.Hour)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRelevant(tt.entry, m, 24*time.Hour, now))
		})
	}
}

func TestEvaluate(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	m := NewMatcher([]string{"AI"})
	fresh := now.Add(-time.Hour)

	v, ts, err := Evaluate(domain.Entry{Title: "AI news", PublishedAt: &fresh}, m, 24*time.Hour, now)
	require.NoError(t, err)
	assert.Equal(t, Relevant, v)
	require.NotNil(t, ts)
	assert.Equal(t, fresh, *ts)

	v, ts, err = Evaluate(domain.Entry{Title: "AI news", Published: "garbage"}, m, 24*time.Hour, now)
	require.Error(t, err)
	assert.Equal(t, NoDate, v)
	assert.Nil(t, ts)

	v, _, err = Evaluate(domain.Entry{Title: "cats", Published: "garbage"}, m, 24*time.Hour, now)
	require.NoError(t, err, "date is not checked for non-matching titles")
	assert.Equal(t, NoMatch, v)

	old := now.Add(-48 * time.Hour)
	v, ts, err = Evaluate(domain.Entry{Title: "AI news", PublishedAt: &old}, m, 24*time.Hour, now)
	require.NoError(t, err)
	assert.Equal(t, TooOld, v)
	assert.NotNil(t, ts)
}

func TestNormalizeTime(t *testing.T) {
	t.Run("parsed time wins and is converted to utc", func(t *testing.T) {
		loc := time.FixedZone("UTC+3", 3*60*60)
		parsed := time.Date(2024, 1, 1, 15, 0, 0, 0, loc)
		res, err := NormalizeTime("garbage", &parsed)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC), *res)
		assert.Equal(t, time.UTC, res.Location())
	})

	t.Run("raw with offset", func(t *testing.T) {
		res, err := NormalizeTime("2024-01-01T15:00:00+03:00", nil)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC), *res)
	})

	t.Run("naive raw assumed utc", func(t *testing.T) {
		res, err := NormalizeTime("2024-01-01 12:00:00", nil)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC), *res)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := NormalizeTime("  ", nil)
		require.Error(t, err)
	})

	t.Run("unparseable", func(t *testing.T) {
		_, err := NormalizeTime("not a date", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse publication time")
	})
}

func TestLoadKeywords(t *testing.T) {
	t.Run("file with comments and blanks", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "keywords.txt")
		content := "# ai topics\nmachine learning\n\n  transformer  \nMachine Learning\nLLM\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		kw, err := LoadKeywords(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"machine learning", "transformer", "LLM"}, kw)
	})

	t.Run("missing file falls back to defaults", func(t *testing.T) {
		kw, err := LoadKeywords(filepath.Join(t.TempDir(), "nope.txt"))
		require.NoError(t, err)
		assert.Equal(t, DefaultKeywords, kw)

		kw[0] = "mutated"
		assert.Equal(t, "machine learning", DefaultKeywords[0], "defaults must not be shared")
	})

	t.Run("empty file means no keywords", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.txt")
		require.NoError(t, os.WriteFile(path, nil, 0o600))
		kw, err := LoadKeywords(path)
		require.NoError(t, err)
		assert.Empty(t, kw)
	})

	t.Run("directory is an error", func(t *testing.T) {
		_, err := LoadKeywords(t.TempDir())
		require.Error(t, err)
	})
}
