// Package translate formats user-visible messages in the user's locale.
package translate

import (
	"io"
	"log"
	"sync"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Fallback is used when the user's locale cannot be detected.
var Fallback = language.AmericanEnglish

// Printer returns the message printer for the user's locale. Detection runs
// once, on first use.
var Printer = sync.OnceValue(func() *message.Printer {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("x87: locale: %v", err)
	}

	tag := Fallback
	if len(locales) != 0 {
		tag = message.MatchLanguage(locales...)
	}

	return message.NewPrinter(tag)
})

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	return Printer().Sprintf(key, args...)
}

// Fprintf translates key and writes it to w.
func Fprintf(w io.Writer, key message.Reference, args ...any) (int, error) {
	return Printer().Fprintf(w, key, args...)
}
