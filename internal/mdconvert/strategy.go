package mdconvert

// Run executes the named base strategy. custom is only consulted when
// strategy is StrategyCustom.
func Run(strategy Strategy, htmlContent, pageURL string, custom CustomFunc) (string, error) {
	switch strategy {
	case StrategyReadability:
		return Readability(htmlContent, pageURL)
	case StrategyCustom:
		if custom == nil {
			return "", &Error{Cause: ErrCauseConversionFailure, Message: "custom strategy selected without a converter function"}
		}
		return Custom(custom, htmlContent, pageURL)
	default:
		return Default(htmlContent, pageURL)
	}
}
