package voice

import (
	"fmt"
	"strings"

	"github.com/thucvanminh/mywallet/internal/model"
)

// Resolution is the outcome of mapping an extracted category name onto the
// session's known categories.
type Resolution struct {
	Category model.Category
	Fallback bool
}

// Resolve matches name against categories by case-insensitive exact
// comparison. When nothing matches it falls back to categories[0], an
// arbitrary but deterministic default. The fallback is reported, not hidden,
// so callers can warn the user about a probable mis-transcription.
func Resolve(categories []model.Category, name string) (Resolution, error) {
	if len(categories) == 0 {
		return Resolution{}, fmt.Errorf("no categories to resolve against")
	}

	for _, cat := range categories {
		if strings.EqualFold(cat.Name, name) {
			return Resolution{Category: cat}, nil
		}
	}

	return Resolution{Category: categories[0], Fallback: true}, nil
}
