package textmodel

// stopwords.go - English stopword list used by the vectorizer

import "strings"

var stopwordList = []string{
	"a", "about", "above", "after", "again", "against", "all", "also",
	"am", "an", "and", "any", "are", "as", "at", "be", "became",
	"because", "been", "before", "being", "below", "between", "both",
	"but", "by", "can", "cannot", "could", "did", "do", "does", "doing",
	"down", "during", "each", "either", "else", "etc", "few", "for",
	"from", "further", "had", "has", "have", "having", "he", "her",
	"here", "hers", "herself", "him", "himself", "his", "how", "however",
	"i", "if", "in", "into", "is", "it", "its", "itself", "just", "may",
	"me", "might", "more", "most", "must", "my", "myself", "neither",
	"no", "nor", "not", "now", "of", "off", "on", "once", "only", "onto",
	"or", "other", "our", "ours", "ourselves", "out", "over", "own",
	"per", "same", "shall", "she", "should", "since", "so", "some",
	"such", "than", "that", "the", "their", "theirs", "them",
	"themselves", "then", "there", "therefore", "these", "they", "this",
	"those", "though", "through", "thus", "to", "too", "under", "until",
	"up", "upon", "us", "very", "was", "we", "were", "what", "when",
	"where", "whether", "which", "while", "who", "whom", "why", "will",
	"with", "within", "without", "would", "you", "your", "yours",
	"yourself", "yourselves",
}

var stopwords = func() map[string]struct{} {
	m := make(map[string]struct{}, len(stopwordList))
	for _, w := range stopwordList {
		m[strings.ToLower(w)] = struct{}{}
	}
	return m
}()

func isStopword(token string) bool {
	_, ok := stopwords[token]
	return ok
}
