package extract

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/thucvanminh/mywallet/internal/common"
	"github.com/thucvanminh/mywallet/internal/service"
)

// buildPrompt produces the extraction instruction sent alongside the audio.
// The model must answer with a bare JSON array; fences are stripped anyway
// because models add them regardless of instruction.
func buildPrompt(categories []string, currentDate time.Time) string {
	return fmt.Sprintf(`Extract financial transactions from the provided audio.
Return ONLY a JSON array of objects. Do not include any other text or markdown formatting.

JSON Structure:
[{
  "amount": number,
  "note": string,
  "type": "INCOME" | "EXPENSE",
  "category_name": string,
  "date": "YYYY-MM-DD"
}]

Context:
- Today's date: %s
- Available categories: %s
- If a transaction date is not mentioned, use Today's date.
- If no note is mentioned, leave it as an empty string.
- Identify the most relevant category from the list above.`,
		currentDate.Format("2006-01-02"),
		strings.Join(categories, ", "))
}

// cleanMarkdownWrapper strips ```json fences some models wrap around output.
func cleanMarkdownWrapper(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}

// wireCandidate is the duck-typed shape the extraction service returns for
// one transaction. It is validated here before anything downstream sees it.
type wireCandidate struct {
	Note         *string  `json:"note"`
	Date         *string  `json:"date"`
	CategoryName string   `json:"category_name"`
	Amount       *float64 `json:"amount"`
}

// parseCandidates decodes and validates the model's JSON array. Structural
// problems are transport failures; downstream code never handles a half-formed
// candidate. Zero-length arrays are valid here and classified by the session.
func parseCandidates(content string) ([]service.Candidate, error) {
	content = cleanMarkdownWrapper(content)

	var wire []wireCandidate
	if err := json.Unmarshal([]byte(content), &wire); err != nil {
		return nil, fmt.Errorf("%w: malformed extraction response: %v", common.ErrTransportFailure, err)
	}

	candidates := make([]service.Candidate, 0, len(wire))
	for i, w := range wire {
		if w.Amount == nil {
			return nil, fmt.Errorf("%w: candidate %d has no amount", common.ErrTransportFailure, i)
		}
		if strings.TrimSpace(w.CategoryName) == "" {
			return nil, fmt.Errorf("%w: candidate %d has no category name", common.ErrTransportFailure, i)
		}

		c := service.Candidate{
			Amount:       *w.Amount,
			CategoryName: w.CategoryName,
		}
		if w.Note != nil {
			c.Note = *w.Note
		}
		if w.Date != nil && *w.Date != "" {
			date, err := time.Parse("2006-01-02", *w.Date)
			if err != nil {
				return nil, fmt.Errorf("%w: candidate %d has unparseable date %q", common.ErrTransportFailure, i, *w.Date)
			}
			c.Date = date
		}
		candidates = append(candidates, c)
	}

	return candidates, nil
}
