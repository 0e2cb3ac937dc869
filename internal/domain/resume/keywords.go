package resume

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

type KeywordCategory string

const (
	CategoryTechnical KeywordCategory = "technical"
	CategorySoft      KeywordCategory = "soft"
)

var technicalKeywords = []string{
	"javascript", "typescript", "python", "java", "golang", "rust", "ruby", "php", "kotlin", "swift",
	"c++", "c#", "scala", "sql", "nosql", "html", "css",
	"react", "angular", "vue", "node.js", "express", "django", "flask", "spring", "laravel", "next.js",
	"postgresql", "mysql", "mongodb", "redis", "elasticsearch", "kafka", "rabbitmq", "graphql", "rest",
	"docker", "kubernetes", "terraform", "ansible", "aws", "azure", "gcp", "linux", "git", "ci/cd",
	"microservices", "machine learning", "deep learning", "data analysis", "tensorflow", "pytorch",
	"agile", "scrum",
}

var softKeywords = []string{
	"leadership", "communication", "teamwork", "collaboration", "problem solving", "critical thinking",
	"time management", "adaptability", "creativity", "mentoring", "negotiation", "presentation",
	"project management", "stakeholder management", "attention to detail", "customer service",
}

type KeywordCount struct {
	Keyword  string          `json:"keyword"`
	Count    int             `json:"count"`
	Category KeywordCategory `json:"category"`
}

type KeywordReport struct {
	Found     []string       `json:"found"`
	Frequency []KeywordCount `json:"frequency"`
}

// ExtractKeywords counts whole-word, case-insensitive occurrences of the
// technical and soft-skill vocabularies. Found keeps vocabulary order;
// Frequency is sorted by count, then keyword.
func ExtractKeywords(text string) KeywordReport {
	lower := strings.ToLower(text)
	out := KeywordReport{Found: []string{}, Frequency: []KeywordCount{}}

	scan := func(vocab []string, cat KeywordCategory) {
		for _, kw := range vocab {
			n := countWord(lower, kw)
			if n == 0 {
				continue
			}
			out.Found = append(out.Found, kw)
			out.Frequency = append(out.Frequency, KeywordCount{Keyword: kw, Count: n, Category: cat})
		}
	}
	scan(technicalKeywords, CategoryTechnical)
	scan(softKeywords, CategorySoft)

	sort.SliceStable(out.Frequency, func(i, j int) bool {
		if out.Frequency[i].Count != out.Frequency[j].Count {
			return out.Frequency[i].Count > out.Frequency[j].Count
		}
		return out.Frequency[i].Keyword < out.Frequency[j].Keyword
	})
	return out
}

// countWord counts non-overlapping occurrences of word in text where the
// characters on either side are not letters or digits.
func countWord(text, word string) int {
	if word == "" {
		return 0
	}
	n := 0
	for from := 0; from <= len(text)-len(word); {
		idx := strings.Index(text[from:], word)
		if idx < 0 {
			break
		}
		start := from + idx
		end := start + len(word)
		if boundaryBefore(text, start) && boundaryAfter(text, end) {
			n++
			from = end
			continue
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		from = start + size
	}
	return n
}

func boundaryBefore(text string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return !isWordRune(r)
}

func boundaryAfter(text string, i int) bool {
	if i >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
