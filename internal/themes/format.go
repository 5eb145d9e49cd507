// ABOUTME: Renders unlock results into user-facing reply text
// ABOUTME: Phrasing comes from the catalog, presentation flags from config

package themes

import (
	"fmt"
	"strings"
)

// Formatter renders unlock values into reply text. The zero value gives
// full descriptive phrasing with the gold key suppressed.
type Formatter struct {
	HidePrefix bool // emit raw values only, no descriptive phrasing
	GoldKey    bool // surface the secondary gold value when present
}

// Format builds the reply for a theme's unlock result. secondary is the
// gold key and is shown only when the theme can carry one, the formatter
// allows it, and the service actually returned it.
func (f Formatter) Format(th Theme, primary, secondary string) string {
	gold := th.Gold && f.GoldKey && secondary != ""

	if f.HidePrefix {
		if gold {
			return primary + "\n" + secondary
		}
		return primary
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s: %s", th.Name, label(th.Phrasing), primary)
	if gold {
		fmt.Fprintf(&b, "\nGold key: %s", secondary)
	}
	return b.String()
}

// label maps a phrasing to the descriptive label in front of the value.
func label(p Phrasing) string {
	switch p {
	case PhrasingDate:
		return "unlock date"
	case PhrasingKey:
		return "unlock key"
	default:
		return "unlock code"
	}
}
