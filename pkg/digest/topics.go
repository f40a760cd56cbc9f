package digest

import (
	"github.com/umputun/newsdigest/pkg/filter"
)

// DefaultFlavour is used when no topic stands out
const DefaultFlavour = "frontier research"

//go:generate moq -out ../scheduler/mocks/topic_classifier.go -pkg mocks -skip-ensure -fmt goimports . TopicClassifier

// TopicClassifier picks the flavour of a batch for its subject line
type TopicClassifier interface {
	Flavour(articles []Article) string
}

type topicRule struct {
	topic   string
	matcher *filter.Matcher
}

// KeywordTopics votes one topic per article by an ordered rule table and returns
// the most frequent one, ties go to the earlier rule
type KeywordTopics struct {
	rules []topicRule
}

// NewKeywordTopics makes the default rule table
func NewKeywordTopics() *KeywordTopics {
	table := []struct {
		topic    string
		keywords []string
	}{
		{"large language models", []string{"gpt", "llm", "llms", "large language model", "large language models", "transformer", "transformers"}},
		{"computer vision", []string{"computer vision", "cv", "image", "images"}},
		{"machine learning", []string{"machine learning", "ml"}},
		{"deep learning", []string{"deep learning", "dl"}},
		{"artificial intelligence", []string{"ai", "artificial intelligence"}},
	}
	res := &KeywordTopics{}
	for _, t := range table {
		res.rules = append(res.rules, topicRule{topic: t.topic, matcher: filter.NewMatcher(t.keywords)})
	}
	return res
}

// Flavour returns "<topic> breakthroughs" for the dominant topic or DefaultFlavour
func (k *KeywordTopics) Flavour(articles []Article) string {
	votes := make([]int, len(k.rules))
	for _, a := range articles {
		text := a.Title + " " + a.Summary
		for i, r := range k.rules {
			if r.matcher.Match(text) {
				votes[i]++
				break
			}
		}
	}

	best := -1
	for i, v := range votes {
		if v > 0 && (best < 0 || v > votes[best]) {
			best = i
		}
	}
	if best < 0 {
		return DefaultFlavour
	}
	return k.rules[best].topic + " breakthroughs"
}

// NoTopics always returns DefaultFlavour
type NoTopics struct{}

// Flavour returns DefaultFlavour
func (NoTopics) Flavour([]Article) string { return DefaultFlavour }
