package mdconvert

// Custom delegates wholly to fn. Errors propagate unchanged.
func Custom(fn CustomFunc, htmlContent, pageURL string) (string, error) {
	return fn(htmlContent, pageURL)
}
