package ratings

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// The leaderboard page is a Next.js document; scores live in the embedded
// __NEXT_DATA__ payload. When that is missing or invalid the loose pattern
// scans the raw HTML for inline JSON-like fragments.
var (
	nextDataRE   = regexp.MustCompile(`(?s)<script id="__NEXT_DATA__"[^>]*>(.*?)</script>`)
	nameScoreRE  = regexp.MustCompile(`"name"\s*:\s*"([^"]+)"[^}]{0,400}?"score"\s*:\s*(\d+(?:\.\d+)?)`)
	modelScoreRE = regexp.MustCompile(`"model"\s*:\s*"([^"]+)"[^}]{0,400}?"(?:overall|rating|avg)"\s*:\s*(\d+(?:\.\d+)?)`)
	looseRE      = regexp.MustCompile(`"(?:model|name)"\s*:\s*"([^"]+)"[^}]{0,200}?"(?:score|rating|overall)"\s*:\s*(\d+(?:\.\d+)?)`)
)

// aliases collapses model-version variants onto the catalog's product names.
var aliases = map[string]string{
	"GPT-4":           "ChatGPT",
	"GPT-4o":          "ChatGPT",
	"GPT-4.1":         "ChatGPT",
	"GPT-3.5":         "ChatGPT",
	"Claude 3":        "Claude",
	"Claude 3.5":      "Claude",
	"Claude 2":        "Claude",
	"Gemini Advanced": "Gemini",
	"Gemini 1.5":      "Gemini",
	"Llama":           "Groq", // practical alias for the OSS/hosted lines
}

// CanonicalName maps a raw model name to its canonical product name.
func CanonicalName(name string) string {
	name = strings.TrimSpace(name)
	if canon, ok := aliases[name]; ok {
		return canon
	}
	return name
}

// ParseScores extracts (name, score) pairs from the leaderboard HTML and
// normalizes them into [0,1]. When several raw names alias to the same
// canonical name the maximum normalized score wins.
func ParseScores(html string) map[string]float64 {
	scores := make(map[string]float64)
	add := func(name string, v float64) {
		if v > 1 {
			v = v / 100.0
		}
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		n := CanonicalName(name)
		if v > scores[n] {
			scores[n] = v
		}
	}

	if m := nextDataRE.FindStringSubmatch(html); m != nil && json.Valid([]byte(m[1])) {
		payload := m[1]
		for _, hit := range nameScoreRE.FindAllStringSubmatch(payload, -1) {
			if v, err := strconv.ParseFloat(hit[2], 64); err == nil {
				add(hit[1], v)
			}
		}
		for _, hit := range modelScoreRE.FindAllStringSubmatch(payload, -1) {
			if v, err := strconv.ParseFloat(hit[2], 64); err == nil {
				add(hit[1], v)
			}
		}
	}
	if len(scores) == 0 {
		for _, hit := range looseRE.FindAllStringSubmatch(html, -1) {
			if v, err := strconv.ParseFloat(hit[2], 64); err == nil {
				add(hit[1], v)
			}
		}
	}
	return scores
}
