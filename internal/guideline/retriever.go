package guideline

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"

	"github.com/baddebtguard/risk-engine/internal/model"
)

const (
	// resultsPerQuery is how many passages each canonical query contributes.
	resultsPerQuery = 2
	// maxContextSnippets caps the total guideline block handed to the analyst.
	maxContextSnippets = 8
)

// ScoredDocument is a retrieval hit with its relevance score.
type ScoredDocument struct {
	Document
	Score float64
}

// Retriever finds guideline passages relevant to a query or loan context.
type Retriever interface {
	Search(ctx context.Context, query string, n int) []ScoredDocument
	ContextForLoan(ctx context.Context, rctx model.AnalysisContext) []model.GuidelineSnippet
}

// Index is an in-memory lexical retriever over a guideline corpus. Terms
// are weighted by inverse document frequency so distinctive words dominate
// common ones. Safe for concurrent use after construction.
type Index struct {
	docs   []Document
	tokens []map[string]bool
	df     map[string]int
	folder cases.Caser
}

// NewIndex builds a retriever over the given corpus.
func NewIndex(docs []Document) *Index {
	idx := &Index{
		docs:   docs,
		tokens: make([]map[string]bool, len(docs)),
		df:     make(map[string]int),
		folder: cases.Fold(),
	}
	for i, d := range docs {
		set := idx.tokenize(d.Content)
		idx.tokens[i] = set
		for tok := range set {
			idx.df[tok]++
		}
	}
	return idx
}

// NewDefaultIndex builds a retriever over the embedded BNM corpus.
func NewDefaultIndex() *Index {
	return NewIndex(DefaultCorpus())
}

var _ Retriever = (*Index)(nil)

func (idx *Index) tokenize(text string) map[string]bool {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('A' <= r && r <= 'Z') && !('0' <= r && r <= '9')
	})
	set := make(map[string]bool, len(fields))
	for _, f := range fields {
		if len(f) < 2 {
			continue
		}
		set[idx.folder.String(f)] = true
	}
	return set
}

// Search returns the n most relevant passages for a free-text query,
// ordered by score then corpus position. Documents with no overlapping
// terms are excluded.
func (idx *Index) Search(_ context.Context, query string, n int) []ScoredDocument {
	queryTokens := idx.tokenize(query)
	total := float64(len(idx.docs))

	hits := make([]ScoredDocument, 0, len(idx.docs))
	for i, docTokens := range idx.tokens {
		score := 0.0
		for tok := range queryTokens {
			if docTokens[tok] {
				// idf with +1 smoothing keeps corpus-wide terms from zeroing out.
				score += math.Log(1 + total/float64(idx.df[tok]))
			}
		}
		if score > 0 {
			hits = append(hits, ScoredDocument{Document: idx.docs[i], Score: score})
		}
	}

	sort.SliceStable(hits, func(a, b int) bool { return hits[a].Score > hits[b].Score })
	if n > 0 && len(hits) > n {
		hits = hits[:n]
	}
	return hits
}

// canonicalQueries are the fixed retrieval probes run for every assessment.
func canonicalQueries(rctx model.AnalysisContext) []string {
	return []string{
		fmt.Sprintf("DSR requirements for %s loans", rctx.LoanType),
		fmt.Sprintf("LTV limits for %s", rctx.LoanType),
		fmt.Sprintf("%s banking regulations", rctx.BankingSystem),
		fmt.Sprintf("Income requirements for %s", rctx.LoanType),
		"Credit assessment guidelines",
	}
}

// ContextForLoan retrieves the guideline passages relevant to a loan
// context. Each canonical query contributes its top matches, duplicates
// are kept once at their first rank, and the result is capped.
func (idx *Index) ContextForLoan(ctx context.Context, rctx model.AnalysisContext) []model.GuidelineSnippet {
	seen := make(map[string]bool)
	snippets := make([]model.GuidelineSnippet, 0, maxContextSnippets)

	for _, query := range canonicalQueries(rctx) {
		for _, hit := range idx.Search(ctx, query, resultsPerQuery) {
			if seen[hit.ID] {
				continue
			}
			seen[hit.ID] = true
			snippets = append(snippets, model.GuidelineSnippet{
				ID:             hit.ID,
				Text:           hit.Content,
				RelevanceQuery: query,
				Rank:           len(snippets) + 1,
			})
		}
	}

	if len(snippets) > maxContextSnippets {
		snippets = snippets[:maxContextSnippets]
	}
	zap.L().Debug("guideline: retrieved loan context",
		zap.Int("snippets", len(snippets)),
		zap.String("loan_type", string(rctx.LoanType)),
		zap.String("banking_system", string(rctx.BankingSystem)),
	)
	return snippets
}

// FormatContext renders retrieved snippets into the prompt block the
// qualitative analyst consumes. An empty retrieval falls back to a plain
// instruction naming the loan context.
func FormatContext(snippets []model.GuidelineSnippet, rctx model.AnalysisContext) string {
	if len(snippets) == 0 {
		return fmt.Sprintf("Apply Bank Negara Malaysia guidelines for %s loans under %s banking.",
			rctx.LoanType, rctx.BankingSystem)
	}
	var b strings.Builder
	b.WriteString("### RELEVANT BNM GUIDELINES (Retrieval-Augmented):\n")
	for _, s := range snippets {
		b.WriteString("\n• ")
		b.WriteString(s.Text)
		b.WriteString("\n")
	}
	return b.String()
}
