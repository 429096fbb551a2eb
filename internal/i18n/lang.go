package i18n

import (
	"net/http"
	"strings"

	"github.com/dharashakti/backoffice/internal/common/cnst"

	"github.com/gin-gonic/gin"
)

var (
	defaultLang    = cnst.LangEN
	supportedLangs = []string{cnst.LangEN, cnst.LangHI}
)

// SetDefaultLanguage sets the language used when the request names none we
// support
func SetDefaultLanguage(lang string) {
	if lang = normalize(lang); lang != "" {
		defaultLang = lang
	}
}

// LanguageMiddleware stores the request language in the gin context
func LanguageMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(cnst.XLang, languageFromRequest(c.Request))
		c.Next()
	}
}

// languageFromRequest reads X-Lang first, then the first Accept-Language tag
func languageFromRequest(r *http.Request) string {
	if lang := normalize(r.Header.Get(cnst.XLang)); lang != "" {
		return lang
	}
	if accept := r.Header.Get("Accept-Language"); accept != "" {
		first := strings.TrimSpace(strings.Split(strings.Split(accept, ",")[0], ";")[0])
		if lang := normalize(first); lang != "" {
			return lang
		}
	}
	return defaultLang
}

func normalize(lang string) string {
	code := strings.ToLower(strings.Split(strings.TrimSpace(lang), "-")[0])
	for _, supported := range supportedLangs {
		if code == supported {
			return code
		}
	}
	return ""
}

// LanguageOf returns the language chosen for this request
func LanguageOf(c *gin.Context) string {
	if v, ok := c.Get(cnst.XLang); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return defaultLang
}

// TranslateMessage translates msgID into the request language
func TranslateMessage(c *gin.Context, msgID string, data map[string]any) string {
	t := GetTranslator()
	if t == nil {
		return msgID
	}
	return t.Translate(msgID, LanguageOf(c), data)
}
