package middleware

import (
	"HibiscusAlert/pkg/i18n"

	"github.com/gin-gonic/gin"
)

func LanguageMiddleware(i18nSupport *i18n.I18nSupport, defaultLang string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 获取请求中的语言（从查询参数或头部）
		lang := c.Query("lang")
		if lang == "" {
			lang = c.GetHeader("Accept-Language")
		}
		if lang != "es" && lang != "en" {
			lang = defaultLang // 无效语言回退默认（西班牙语）
		}

		c.Set("lang", lang)
		c.Next()
	}
}
