package mdconvert

// Strategy names the Layer 1 base conversion approach a page was run
// through.
type Strategy string

const (
	StrategyDefault     Strategy = "default"
	StrategyReadability Strategy = "readability"
	StrategyCustom      Strategy = "custom"
)

// CustomFunc is the caller-supplied converter a Custom strategy
// delegates wholly to. Errors propagate unchanged.
type CustomFunc func(html, pageURL string) (string, error)
