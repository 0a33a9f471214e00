package classifier

import (
	"regexp"

	"github.com/xivtools/nosol/internal/chat"
	"github.com/xivtools/nosol/internal/normalize"
	"github.com/xivtools/nosol/internal/pf"
)

// heuristicPatterns is the built-in solicitation pattern set. It is
// independent of the user-supplied custom rule sets and of any
// configuration.
var heuristicPatterns = []string{
	`\bw[t4]s\b.{0,20}\bgil\b`,
	`\bgil\b.{0,20}\b(sale|sell(ing)?|cheap(est)?|stock|price|promo)\b`,
	`\b(buy|sell(ing)?|cheap(est)?)\b.{0,20}\bgil\b`,
	`\bpower.?level(ing)?\b`,
	`\b\d+\s*[km]\s*gil\b`,
	`\b\d+\s*%\s*(off|discount|bonus)\b`,
	`\b(discount|coupon|promo)\s*code\b`,
	`(www\.|https?://)\S*(gil|mmo|game)\S*`,
	`\breal\s*money\b`,
	`\bfast\s*delivery\b.{0,30}\b(gil|level)`,
}

// HeuristicDetector is the legacy solicitation detector: a fixed pattern set
// usable when the richer classifier is unavailable. It yields only a boolean
// decision and touches no history.
type HeuristicDetector struct {
	patterns []*regexp.Regexp
}

func NewHeuristicDetector() *HeuristicDetector {
	compiled := make([]*regexp.Regexp, 0, len(heuristicPatterns))
	for _, p := range heuristicPatterns {
		compiled = append(compiled, regexp.MustCompile("(?i)"+p))
	}

	return &HeuristicDetector{patterns: compiled}
}

// IsProbableSolicitation checks normalized text against the built-in pattern
// set.
func (d *HeuristicDetector) IsProbableSolicitation(text string) bool {
	for _, re := range d.patterns {
		if re.MatchString(text) {
			return true
		}
	}

	return false
}

// ChatIsSolicitation normalizes and checks one chat message. Battle channels
// are never flagged.
func (d *HeuristicDetector) ChatIsSolicitation(channel chat.Channel, text string) bool {
	if channel.IsBattle() {
		return false
	}

	return d.IsProbableSolicitation(normalize.Normalize(text))
}

// ListingIsSolicitation normalizes and checks one listing description. Null
// listings are never flagged.
func (d *HeuristicDetector) ListingIsSolicitation(listing pf.Listing) bool {
	if listing.IsNull() {
		return false
	}

	return d.IsProbableSolicitation(normalize.Normalize(listing.Description()))
}
