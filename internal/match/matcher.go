// Package match pairs scanned receipt line items with entries on an
// existing shopping list so a confirmed receipt can tick off what was
// already planned. Matching is a keyword-overlap score over cleaned,
// lowercased product names; receipt names carry unit and packaging noise
// ("Молоко 1л п/уп") that must not count against the match.
package match

import (
	"regexp"
	"strings"

	"github.com/packetapp/packet-go/internal/models"
)

// threshold is the minimum Jaccard similarity for a pairing.
const threshold = 0.7

// noiseWords are unit and packaging tokens with no product identity.
var noiseWords = map[string]struct{}{
	"п/уп":  {},
	"нарез": {},
	"кг":    {},
	"г":     {},
	"л":     {},
	"шт":    {},
	"уп":    {},
	"бокс":  {},
	"сашет": {},
}

var (
	quantityRe = regexp.MustCompile(`[0-9,.]+(кг|г|л|шт|%)`)
	bracketsRe = regexp.MustCompile(`[()\[\]:]`)
)

// Pairing couples one scanned receipt item with its best list candidate,
// or with nothing when no candidate reached the threshold.
type Pairing struct {
	Scanned models.ReceiptItem
	Matched *models.GroupListItem
}

// Match pairs each scanned item with the highest-scoring candidate at or
// above the threshold. Single pass per item, O(n*m); receipts carry tens
// of line items at most.
func Match(scanned []models.ReceiptItem, candidates []models.GroupListItem) []Pairing {
	pairings := make([]Pairing, 0, len(scanned))
	for _, item := range scanned {
		var best *models.GroupListItem
		bestScore := 0.0
		for i := range candidates {
			score := Similarity(item.Name, candidates[i].ItemName)
			if score >= threshold && score > bestScore {
				best = &candidates[i]
				bestScore = score
			}
		}
		pairings = append(pairings, Pairing{Scanned: item, Matched: best})
	}
	return pairings
}

// Similarity is the Jaccard ratio over the two names' keyword sets:
// |intersection| / |union|, 0 when both sets are empty.
func Similarity(a, b string) float64 {
	ka := keywords(a)
	kb := keywords(b)

	common := 0
	for k := range ka {
		if _, ok := kb[k]; ok {
			common++
		}
	}
	total := len(ka) + len(kb) - common
	if total == 0 {
		return 0
	}
	return float64(common) / float64(total)
}

// keywords lowercases a product name, strips quantity/unit suffixes
// ("1л", "0,5кг") and brackets, and drops noise words and tokens of one
// or two runes.
func keywords(name string) map[string]struct{} {
	cleaned := strings.ToLower(name)
	cleaned = quantityRe.ReplaceAllString(cleaned, "")
	cleaned = bracketsRe.ReplaceAllString(cleaned, "")

	words := make(map[string]struct{})
	for _, w := range strings.Fields(cleaned) {
		if len([]rune(w)) <= 2 {
			continue
		}
		if _, noise := noiseWords[w]; noise {
			continue
		}
		words[w] = struct{}{}
	}
	return words
}
