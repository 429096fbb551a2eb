package cnst

const (
	// XLang is the header (and gin context key) carrying the response language
	XLang = "X-Lang"

	LangEN = "en"
	LangHI = "hi"
)
