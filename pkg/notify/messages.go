package notify

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// message keys
const (
	keySuccess     = "Bookmarked to %s"
	keyAutoSuccess = "Auto-bookmarked to %s"
	keyFailure     = "Failed: %s"
	keyTimeout     = "Provider did not respond in time"
	keyDefault     = "Default"
)

var messages = newCatalog()

func newCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.SimplifiedChinese))
	set := func(tag language.Tag, key, msg string) {
		if err := b.SetString(tag, key, msg); err != nil {
			panic(err) // static catalog
		}
	}

	set(language.English, keySuccess, "Bookmarked to %s")
	set(language.English, keyAutoSuccess, "Auto-bookmarked to %s")
	set(language.English, keyFailure, "Failed: %s")
	set(language.English, keyTimeout, "Provider did not respond in time")
	set(language.English, keyDefault, "Default")

	set(language.SimplifiedChinese, keySuccess, "已收藏到 %s")
	set(language.SimplifiedChinese, keyAutoSuccess, "已自动收藏到 %s")
	set(language.SimplifiedChinese, keyFailure, "失败：%s")
	set(language.SimplifiedChinese, keyTimeout, "模型响应超时")
	set(language.SimplifiedChinese, keyDefault, "默认收藏")
	return b
}

// Messages makes localized notification texts
type Messages struct {
	p *message.Printer
}

// For returns messages in lang, "en" selects english and anything else simplified chinese
func For(lang string) Messages {
	tag := language.SimplifiedChinese
	if strings.HasPrefix(strings.ToLower(lang), "en") {
		tag = language.English
	}
	return Messages{p: message.NewPrinter(tag, message.Catalog(messages))}
}

// Success is sent after a manual classification
func (m Messages) Success(category string) string { return m.p.Sprintf(keySuccess, category) }

// AutoSuccess is sent after a classification of a bookmark created natively
func (m Messages) AutoSuccess(category string) string { return m.p.Sprintf(keyAutoSuccess, category) }

// Failure prefixes reason
func (m Messages) Failure(reason string) string { return m.p.Sprintf(keyFailure, reason) }

// Timeout is the reason for slow providers
func (m Messages) Timeout() string { return m.p.Sprintf(keyTimeout) }

// DefaultCategory is the folder used when classification fails
func (m Messages) DefaultCategory() string { return m.p.Sprintf(keyDefault) }
