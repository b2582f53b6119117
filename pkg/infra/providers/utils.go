package providers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/NeuralTrust/TrustMod/pkg/domain/moderation"
	"github.com/valyala/fastjson"
)

func FormatInstructions(instr []string) string {
	if len(instr) == 0 {
		return "[Instructions]\n"
	}

	var b strings.Builder
	b.WriteString("[Instructions]\n")
	for _, rule := range instr {
		if strings.TrimSpace(rule) == "" {
			continue
		}
		b.WriteString("- ")
		b.WriteString(rule)
		b.WriteByte('\n')
	}
	return b.String()
}

// Verdict is the JSON object the LLM classifier asks models to answer with.
type Verdict struct {
	Decision   string             `json:"decision"`
	Confidence float64            `json:"confidence"`
	Reasoning  string             `json:"reasoning"`
	Categories map[string]float64 `json:"categories,omitempty"`
}

// ParseVerdict extracts a Verdict from a model answer, tolerating markdown fences,
// surrounding prose and numbers sent as strings.
func ParseVerdict(answer string) (*Verdict, moderation.Decision, error) {
	text := strings.TrimSpace(answer)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return nil, "", fmt.Errorf("no JSON object in model answer")
	}

	var p fastjson.Parser
	parsed, err := p.Parse(text[start : end+1])
	if err != nil {
		return nil, "", fmt.Errorf("invalid verdict: %w", err)
	}
	v := Verdict{
		Decision:  string(parsed.GetStringBytes("decision")),
		Reasoning: string(parsed.GetStringBytes("reasoning")),
	}
	decision, err := moderation.ParseDecision(v.Decision)
	if err != nil {
		return nil, "", err
	}
	if v.Confidence, err = lenientFloat(parsed.Get("confidence")); err != nil {
		return nil, "", fmt.Errorf("invalid confidence: %w", err)
	}
	if v.Confidence < 0 || v.Confidence > 1 {
		return nil, "", fmt.Errorf("confidence %v out of range", v.Confidence)
	}
	if categories := parsed.GetObject("categories"); categories != nil {
		v.Categories = make(map[string]float64, categories.Len())
		categories.Visit(func(key []byte, value *fastjson.Value) {
			if score, err := lenientFloat(value); err == nil {
				v.Categories[string(key)] = score
			}
		})
	}
	return &v, decision, nil
}

func lenientFloat(v *fastjson.Value) (float64, error) {
	if v == nil {
		return 0, fmt.Errorf("missing value")
	}
	switch v.Type() {
	case fastjson.TypeNumber:
		return v.Float64()
	case fastjson.TypeString:
		return strconv.ParseFloat(strings.TrimSpace(string(v.GetStringBytes())), 64)
	default:
		return 0, fmt.Errorf("unexpected %s", v.Type())
	}
}
