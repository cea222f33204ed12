// Package translate formats user facing messages for the host locale.
package translate

import (
	"sync"

	"github.com/jeandeaual/go-locale"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// fallback is used when the host locale can not be determined.
var fallback = language.AmericanEnglish

// printer queries the host locale once, on first use.
var printer = sync.OnceValue(func() *message.Printer {
	return message.NewPrinter(hostLanguage())
})

func hostLanguage() language.Tag {
	locales, err := locale.GetLocales()
	if err != nil || len(locales) == 0 {
		return fallback
	}
	return message.MatchLanguage(locales...)
}

// From formats an en-US Sprintf() style key for the host locale.
// Numeric arguments should be passed preformatted, the printer applies
// locale specific digit grouping to plain integer verbs.
func From(key message.Reference, args ...any) string {
	return printer().Sprintf(key, args...)
}
