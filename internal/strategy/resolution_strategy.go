package strategy

import "go-image-quality/pkg/models"

// Match is the outcome of a successful resolution lookup
type Match struct {
	Standard models.ResolutionStandard
	// AspectRatio is set only when the matched entry carries its own ratio
	// label; callers fall back to the reduced fraction otherwise.
	AspectRatio string
}

// ResolutionStrategy maps pixel dimensions to a named resolution standard
type ResolutionStrategy interface {
	Match(width, height int) (Match, bool)
	GetStrategyName() string
}

// Size is a width/height pair used as a table key
type Size struct {
	Width  int
	Height int
}

// NamedResolution is one entry of the exact-match table
type NamedResolution struct {
	Standard    models.ResolutionStandard
	AspectRatio string
}

// ThresholdRule matches images whose dimensions both reach the minimum
type ThresholdRule struct {
	MinWidth  int
	MinHeight int
	Standard  models.ResolutionStandard
}

// defaultNamedResolutions lists well-known panel and broadcast sizes. Ratio
// labels are the marketing names, which differ from the reduced fraction for
// sizes such as 1366x768 or 2560x1080.
var defaultNamedResolutions = map[Size]NamedResolution{
	{7680, 4320}: {"8K", "16:9"},
	{5120, 2880}: {"5K", "16:9"},
	{4096, 2160}: {"DCI 4K", "17:9"},
	{3840, 2160}: {"4K", "16:9"},
	{3440, 1440}: {"UWQHD", "21:9"},
	{2560, 1440}: {"1440p", "16:9"},
	{2560, 1080}: {"UWFHD", "21:9"},
	{2048, 1080}: {"2K", "17:9"},
	{1920, 1200}: {"WUXGA", "16:10"},
	{1920, 1080}: {"1080p", "16:9"},
	{1600, 900}:  {"HD+", "16:9"},
	{1366, 768}:  {"WXGA", "16:9"},
	{1280, 1024}: {"SXGA", "5:4"},
	{1280, 720}:  {"720p", "16:9"},
	{854, 480}:   {"FWVGA", "16:9"},
}

// defaultThresholdRules is ordered from the largest standard down; the first
// rule both dimensions satisfy wins.
var defaultThresholdRules = []ThresholdRule{
	{7680, 4320, "8K"},
	{3840, 2160, "4K"},
	{2048, 1080, "2K"},
	{1920, 1080, "1080p"},
	{1280, 720, "720p"},
}

// DefaultNamedResolutions returns a copy of the built-in exact-match table
func DefaultNamedResolutions() map[Size]NamedResolution {
	table := make(map[Size]NamedResolution, len(defaultNamedResolutions))
	for k, v := range defaultNamedResolutions {
		table[k] = v
	}
	return table
}

// DefaultThresholdRules returns a copy of the built-in threshold table
func DefaultThresholdRules() []ThresholdRule {
	rules := make([]ThresholdRule, len(defaultThresholdRules))
	copy(rules, defaultThresholdRules)
	return rules
}

// ExactMatchStrategy looks dimensions up in a keyed table
type ExactMatchStrategy struct {
	table map[Size]NamedResolution
}

// NewExactMatchStrategy creates an exact-match strategy over the given table.
// A nil table selects the built-in one.
func NewExactMatchStrategy(table map[Size]NamedResolution) ResolutionStrategy {
	if table == nil {
		table = DefaultNamedResolutions()
	}
	return &ExactMatchStrategy{table: table}
}

// Match returns the table entry for exactly width x height
func (s *ExactMatchStrategy) Match(width, height int) (Match, bool) {
	entry, ok := s.table[Size{width, height}]
	if !ok {
		return Match{}, false
	}
	return Match{Standard: entry.Standard, AspectRatio: entry.AspectRatio}, true
}

// GetStrategyName returns the strategy name
func (s *ExactMatchStrategy) GetStrategyName() string {
	return "exact"
}

// ThresholdStrategy walks an ordered rule list
type ThresholdStrategy struct {
	rules []ThresholdRule
}

// NewThresholdStrategy creates a threshold strategy. Rules must be ordered
// from the highest standard down. A nil slice selects the built-in rules.
func NewThresholdStrategy(rules []ThresholdRule) ResolutionStrategy {
	if rules == nil {
		rules = DefaultThresholdRules()
	}
	return &ThresholdStrategy{rules: rules}
}

// Match returns the first rule whose minimums are both reached
func (s *ThresholdStrategy) Match(width, height int) (Match, bool) {
	for _, rule := range s.rules {
		if width >= rule.MinWidth && height >= rule.MinHeight {
			return Match{Standard: rule.Standard}, true
		}
	}
	return Match{}, false
}

// GetStrategyName returns the strategy name
func (s *ThresholdStrategy) GetStrategyName() string {
	return "threshold"
}

// ChainStrategy tries each strategy in turn
type ChainStrategy struct {
	strategies []ResolutionStrategy
}

// NewChainStrategy creates a strategy that returns the first match
func NewChainStrategy(strategies ...ResolutionStrategy) ResolutionStrategy {
	return &ChainStrategy{strategies: strategies}
}

// Match returns the first strategy match
func (s *ChainStrategy) Match(width, height int) (Match, bool) {
	for _, st := range s.strategies {
		if m, ok := st.Match(width, height); ok {
			return m, true
		}
	}
	return Match{}, false
}

// GetStrategyName returns the strategy name
func (s *ChainStrategy) GetStrategyName() string {
	return "combined"
}

// DefaultStrategy checks the named table first and falls back to thresholds
func DefaultStrategy() ResolutionStrategy {
	return NewChainStrategy(NewExactMatchStrategy(nil), NewThresholdStrategy(nil))
}
