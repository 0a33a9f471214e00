// Package classifier is the boundary to the external text classification
// capability. The engine consumes it as an opaque interface and degrades to
// rule-only filtering when it is unavailable.
package classifier

import (
	"context"
	"errors"

	"github.com/xivtools/nosol/internal/chat"
)

// Category is a classifier-assigned solicitation label. CategoryNormal means
// the text is not solicitation.
type Category string

const (
	CategoryNormal      Category = "normal"
	CategoryRMTGil      Category = "rmt_gil"
	CategoryRMTService  Category = "rmt_service"
	CategoryPhish       Category = "phish"
	CategoryFreeCompany Category = "free_company"
	CategoryStatic      Category = "static"
	CategoryTrade       Category = "trade"
	CategoryCommunity   Category = "community"
	CategoryRoleplay    Category = "roleplay"
	CategoryFluff       Category = "fluff"
)

// Categories lists every known category, CategoryNormal first.
func Categories() []Category {
	return []Category{
		CategoryNormal,
		CategoryRMTGil,
		CategoryRMTService,
		CategoryPhish,
		CategoryFreeCompany,
		CategoryStatic,
		CategoryTrade,
		CategoryCommunity,
		CategoryRoleplay,
		CategoryFluff,
	}
}

// ParseCategory maps a label to a known Category.
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories() {
		if string(c) == s {
			return c, true
		}
	}

	return "", false
}

// ErrUnavailable reports that no classification capability is configured.
// It is a recognized degraded mode, not a failure.
var ErrUnavailable = errors.New("classifier: unavailable")

// Classifier labels normalized text for one channel. Listings use
// chat.ChannelNone. The returned string is an opaque classifier version
// identifier recorded alongside verdicts.
type Classifier interface {
	Classify(ctx context.Context, channel chat.Channel, text string) (Category, string, error)
}

// Unavailable is a Classifier that always reports ErrUnavailable.
type Unavailable struct{}

func (Unavailable) Classify(_ context.Context, _ chat.Channel, _ string) (Category, string, error) {
	return "", "", ErrUnavailable
}
