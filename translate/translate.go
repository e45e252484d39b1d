// Package translate formats user-facing messages in the host locale.
//
// Error text throughout the toolchain is written as en-US Sprintf formats;
// From renders them through a printer matched to the user's preferred
// locales, falling back to en-US when none can be determined.
package translate

import (
	"sync"

	"github.com/jeandeaual/go-locale"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/message"
)

var printer = sync.OnceValue(func() *message.Printer {
	preferred, err := locale.GetLocales()
	if err != nil {
		log.Debugf("locale detection: %v", err)
	}
	if len(preferred) == 0 {
		preferred = []string{"en-US"}
	}
	return message.NewPrinter(message.MatchLanguage(preferred...))
})

// From renders an en-US Sprintf format in the host locale.
func From(key message.Reference, args ...any) string {
	return printer().Sprintf(key, args...)
}
