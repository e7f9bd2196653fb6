package i18n

import (
	"encoding/json"
	"log"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

// 内置文案，locales/ 目录下的文件可覆盖
const (
	defaultES = `{
  "alert_push_title": "Nueva alerta de pánico",
  "alert_push_body": "Un usuario que seguís creó una alerta.",
  "alert_saved": "Alerta guardada correctamente",
  "alert_failed": "No se pudo registrar la alerta"
}`
	defaultEN = `{
  "alert_push_title": "New panic alert",
  "alert_push_body": "Someone you follow created an alert.",
  "alert_saved": "Alert saved successfully",
  "alert_failed": "Could not record the alert"
}`
)

// I18nSupport 国际化支持结构体
type I18nSupport struct {
	bundle *i18n.Bundle
}

// NewI18nSupport 初始化国际化支持，defaultLang 通常为 "es"
func NewI18nSupport(defaultLang string) (*I18nSupport, error) {
	bundle := i18n.NewBundle(language.MustParse(defaultLang))
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	if _, err := bundle.ParseMessageFileBytes([]byte(defaultES), "es.json"); err != nil {
		return nil, err
	}
	if _, err := bundle.ParseMessageFileBytes([]byte(defaultEN), "en.json"); err != nil {
		return nil, err
	}

	// 加载外部语言文件（存在则覆盖内置文案）
	if _, err := bundle.LoadMessageFile("locales/es.json"); err != nil {
		log.Printf("failed to load locales/es.json: %v", err)
		// 不返回错误，内置文案已可用
	}
	if _, err := bundle.LoadMessageFile("locales/en.json"); err != nil {
		log.Printf("failed to load locales/en.json: %v", err)
	}

	return &I18nSupport{bundle: bundle}, nil
}

// T 获取翻译文本
func (i *I18nSupport) T(languageTag, key string, templateData map[string]interface{}) string {
	localizer := i18n.NewLocalizer(i.bundle, languageTag)

	translation, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: templateData,
	})
	if err != nil {
		log.Printf("Error translating key %s: %v", key, err)
		return key // 返回键名作为默认值
	}
	return translation
}

// TWithDefaultLang 使用默认语言获取翻译文本
func (i *I18nSupport) TWithDefaultLang(key string, templateData map[string]interface{}) string {
	localizer := i18n.NewLocalizer(i.bundle)

	translation, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: templateData,
	})
	if err != nil {
		log.Printf("Error translating key %s: %v", key, err)
		return key
	}
	return translation
}
