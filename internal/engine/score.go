package engine

import (
	"context"
	"math"
	"net/url"
	"regexp"
	"sort"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// composite score weights
const (
	weightRating = 0.58
	weightFuzzy  = 0.27
	weightTag    = 0.15

	tagBonusValue   = 0.06
	learningPenalty = 0.15
	defaultPrior    = 0.5
	rerankTopN      = 6
	maxToolsPerStep = 3
)

// coreUniversal are broadly applicable assistants eligible for guaranteed
// top-3 placement.
var coreUniversal = map[string]bool{
	"ChatGPT":           true,
	"Claude":            true,
	"Microsoft Copilot": true,
	"Gemini":            true,
	"Perplexity":        true,
	"Groq":              true,
}

// universalPriority is the lookup order when a universal tool has to be
// injected into the top-3.
var universalPriority = []string{
	"ChatGPT", "Claude", "Microsoft Copilot", "Perplexity", "Gemini", "Groq",
}

// popularityPrior is the static, hand-maintained popularity table used when
// no live rating is available.
var popularityPrior = map[string]float64{
	"ChatGPT": 1.00, "Claude": 0.98, "Microsoft Copilot": 0.95, "Gemini": 0.93,
	"Perplexity": 0.94, "Groq": 0.92, "Midjourney": 0.90, "DALL·E 3": 0.88,
	"Stable Diffusion": 0.86, "Runway": 0.87, "Descript": 0.83, "CapCut": 0.84,
	"Zapier Agents": 0.86, "n8n": 0.84, "Make.com": 0.83, "Canva AI": 0.86,
	"Gamma": 0.84, "Tome": 0.83,
}

// deprioritizeForLearning lists tools pushed down for study-type goals.
var deprioritizeForLearning = map[string]bool{
	"NotebookLM": true,
	"Chatbase":   true,
	"Botsonic":   true,
}

var learningQueryRE = regexp.MustCompile(`(?i)\b(learn|learning|study|teach me|course|class|tutorial|explain|what is|scrum|agile)\b`)

func isLearningQuery(goal string) bool {
	return learningQueryRE.MatchString(goal)
}

// scoreTool computes the composite score for one candidate:
// 0.58*max(live, prior) + 0.27*fuzzySimilarity + 0.15*tagBonus, minus a
// penalty when a learning goal meets a deprioritized tool.
func (e *Engine) scoreTool(t ToolRecord, goal, capability, semanticQuery string) float64 {
	live := e.ratings.Rating01(t.Name)
	prior, ok := popularityPrior[t.Name]
	if !ok {
		prior = defaultPrior
	}

	tagBonus := 0.0
	if capability != "" {
		for _, tag := range t.Tags {
			if capability == strings.ToLower(strings.TrimSpace(tag)) {
				tagBonus = tagBonusValue
				break
			}
		}
	}

	// cheap semantic bonus via fuzzy matching, avoids a second embed call
	semSim := float64(fuzzy.PartialRatio(
		strings.ToLower(semanticQuery+" "+goal),
		strings.ToLower(t.Name+" "+strings.Join(t.Tags, " ")),
	)) / 100.0

	score := weightRating*math.Max(live, prior) + weightFuzzy*semSim + weightTag*tagBonus
	if isLearningQuery(goal) && deprioritizeForLearning[t.Name] {
		score -= learningPenalty
	}
	return score
}

// reRank deduplicates candidates by name, scores and orders them, keeps the
// top topN as display entries, and applies the universal-guarantee and
// diversity adjustments.
func (e *Engine) reRank(ctx context.Context, candidates []ToolRecord, goal, capability, semanticQuery string, topN int, ensureUniversalTop3 bool) []ToolInfo {
	uniq := make(map[string]ToolRecord, len(candidates))
	var order []string
	for _, t := range candidates {
		if t.Name == "" {
			continue
		}
		if _, seen := uniq[t.Name]; !seen {
			order = append(order, t.Name)
		}
		uniq[t.Name] = t
	}

	type scored struct {
		info  ToolInfo
		score float64
	}
	list := make([]scored, 0, len(order))
	for _, name := range order {
		t := uniq[name]
		list = append(list, scored{info: displayInfo(t), score: e.scoreTool(t, goal, capability, semanticQuery)})
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].score > list[j].score })

	out := make([]ToolInfo, 0, topN)
	for _, s := range list {
		out = append(out, s.info)
		if len(out) >= topN {
			break
		}
	}

	if ensureUniversalTop3 && countUniversal(head(out, 3)) == 0 {
		for _, name := range universalPriority {
			t, ok, err := e.catalog.FindToolByName(ctx, name)
			if err != nil || !ok {
				continue
			}
			out = prependUnique(out, displayInfo(t))
			if len(out) > topN {
				out = out[:topN]
			}
			break
		}
	}

	// when the top-3 is universal-heavy, pull up to two non-universal
	// alternatives from the remainder; inject fewer if fewer exist, never pad
	if countUniversal(head(out, 3)) >= 2 && len(out) > 4 {
		kept := append([]ToolInfo(nil), out[:4]...)
		var extras, rest []ToolInfo
		for _, x := range out[4:] {
			if len(extras) < 2 && !coreUniversal[x.Name] {
				extras = append(extras, x)
			} else {
				rest = append(rest, x)
			}
		}
		out = append(kept, append(extras, rest...)...)
		if len(out) > topN {
			out = out[:topN]
		}
	}

	return out
}

func head(xs []ToolInfo, n int) []ToolInfo {
	if len(xs) < n {
		return xs
	}
	return xs[:n]
}

func countUniversal(xs []ToolInfo) int {
	n := 0
	for _, x := range xs {
		if coreUniversal[x.Name] {
			n++
		}
	}
	return n
}

func prependUnique(xs []ToolInfo, x ToolInfo) []ToolInfo {
	out := []ToolInfo{x}
	for _, y := range xs {
		if y.Name == x.Name {
			continue
		}
		out = append(out, y)
	}
	return out
}

// displayInfo maps a record to its display shape, deriving a favicon from the
// website domain when no explicit icon is stored.
func displayInfo(t ToolRecord) ToolInfo {
	icon := t.IconURL
	if icon == "" {
		icon = faviconFromWebsite(t.Website())
	}
	return ToolInfo{Name: t.Name, Link: t.Website(), Icon: icon}
}

func faviconFromWebsite(website string) string {
	if website == "" {
		return ""
	}
	domain := website
	if u, err := url.Parse(website); err == nil && u.Host != "" {
		domain = u.Host
	}
	return "https://www.google.com/s2/favicons?domain=" + domain + "&sz=64"
}
