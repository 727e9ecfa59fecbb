package costcontrol

import (
	"sort"
	"strings"
)

// ModelPricing holds per-million-token pricing for a model.
type ModelPricing struct {
	InputPerMTok      float64 // USD per million input tokens
	OutputPerMTok     float64 // USD per million output tokens
	CacheReadPerMTok  float64 // USD per million cache read tokens
	CacheWritePerMTok float64 // USD per million cache creation tokens
}

// DefaultModel is recorded for sessions whose transcript never names a model.
const DefaultModel = "claude-opus-4-6"

var (
	opus46  = ModelPricing{InputPerMTok: 5, OutputPerMTok: 25, CacheReadPerMTok: 0.50, CacheWritePerMTok: 6.25}
	opus4   = ModelPricing{InputPerMTok: 15, OutputPerMTok: 75, CacheReadPerMTok: 1.50, CacheWritePerMTok: 18.75}
	opus3   = ModelPricing{InputPerMTok: 15, OutputPerMTok: 75, CacheReadPerMTok: 1.50, CacheWritePerMTok: 18.75}
	sonnet4 = ModelPricing{InputPerMTok: 3, OutputPerMTok: 15, CacheReadPerMTok: 0.30, CacheWritePerMTok: 3.75}
	haiku45 = ModelPricing{InputPerMTok: 1, OutputPerMTok: 5, CacheReadPerMTok: 0.10, CacheWritePerMTok: 1.25}
	haiku35 = ModelPricing{InputPerMTok: 0.80, OutputPerMTok: 4, CacheReadPerMTok: 0.08, CacheWritePerMTok: 1.00}
	haiku3  = ModelPricing{InputPerMTok: 0.25, OutputPerMTok: 1.25, CacheReadPerMTok: 0.03, CacheWritePerMTok: 0.30}
)

// modelPricingTable maps model names to their pricing.
var modelPricingTable = map[string]ModelPricing{
	// Opus 4.5 / 4.6
	"claude-opus-4-6":          opus46,
	"claude-opus-4-5-20251001": opus46,

	// Opus 4 / 4.1 (legacy, higher pricing)
	"claude-opus-4-20250514": opus4,

	// Sonnet 4 / 4.5 / 4.6 and 3.7
	"claude-sonnet-4-6":          sonnet4,
	"claude-sonnet-4-5-20241022": sonnet4,
	"claude-sonnet-4-20250514":   sonnet4,
	"claude-3-7-sonnet-20250219": sonnet4,

	"claude-haiku-4-5-20251001": haiku45,
	"claude-3-5-haiku-20241022": haiku35,

	// Claude 3 (deprecated)
	"claude-3-opus-20240229":  opus3,
	"claude-3-haiku-20240307": haiku3,
}

// defaultPricing is used for unknown models (conservative to prevent silent undercount).
var defaultPricing = opus46

// familyRule resolves a model id that is not in the table.
type familyRule struct {
	family  string
	match   func(lower string) bool
	pricing ModelPricing
}

func containsAny(subs ...string) func(string) bool {
	return func(s string) bool {
		for _, sub := range subs {
			if strings.Contains(s, sub) {
				return true
			}
		}
		return false
	}
}

// modelFamilyRules is evaluated in order; the first match wins.
// Version-specific families must stay ahead of the broad ones
// ("opus-4-6" before "opus-4" before "opus").
var modelFamilyRules = []familyRule{
	{family: "opus-4.6", match: containsAny("opus-4-6", "opus-4-5"), pricing: opus46},
	{family: "opus-4", match: containsAny("opus-4"), pricing: opus4},
	{family: "opus-3", match: containsAny("opus"), pricing: opus3},
	{family: "sonnet", match: containsAny("sonnet"), pricing: sonnet4},
	{family: "haiku-4.5", match: containsAny("haiku-4", "haiku-4-5"), pricing: haiku45},
	{family: "haiku-3.5", match: containsAny("haiku-3-5"), pricing: haiku35},
	{family: "haiku-3", match: containsAny("haiku"), pricing: haiku3},
}

// Resolution sources reported by ModelFamily.
const (
	FamilyExact   = "exact"
	FamilyDefault = "default"
)

// GetModelPricing returns pricing for a model.
// Tries exact match, then the ordered family rules, then default.
func GetModelPricing(model string) ModelPricing {
	p, _ := resolve(model)
	return p
}

// ModelFamily reports which rule resolved model: FamilyExact, a family label
// such as "sonnet", or FamilyDefault.
func ModelFamily(model string) string {
	_, family := resolve(model)
	return family
}

func resolve(model string) (ModelPricing, string) {
	if p, ok := modelPricingTable[model]; ok {
		return p, FamilyExact
	}

	lower := strings.ToLower(model)
	for _, rule := range modelFamilyRules {
		if rule.match(lower) {
			return rule.pricing, rule.family
		}
	}

	return defaultPricing, FamilyDefault
}

// KnownModels returns the model ids with an exact pricing entry, sorted.
func KnownModels() []string {
	models := make([]string, 0, len(modelPricingTable))
	for m := range modelPricingTable {
		models = append(models, m)
	}
	sort.Strings(models)
	return models
}
