package model

// BadgeType names an achievement awarded to an indexer.
type BadgeType string

const (
	// BadgeItsOnlyWaferThin is awarded when an indexer becomes over-delegated.
	BadgeItsOnlyWaferThin BadgeType = "ItsOnlyWaferThin"
	// BadgeAnIndexerIsBorn is awarded on the event that creates an indexer.
	BadgeAnIndexerIsBorn BadgeType = "AnIndexerIsBorn"
)

// BadgeOverviewID is the id of the singleton award counter.
const BadgeOverviewID = "overview"

// Kind returns the entity kind under which badges of this type are stored.
func (t BadgeType) Kind() Kind {
	return Kind("badge_" + string(t))
}

// Badge is one award, keyed by indexer and block.
type Badge struct {
	ID                 string    `json:"id"`
	Type               BadgeType `json:"type"`
	Indexer            string    `json:"indexer"`
	BadgeNumber        uint64    `json:"badge_number"`
	AwardedAtBlock     uint64    `json:"awarded_at_block"`
	AwardedAtTimestamp uint64    `json:"awarded_at_timestamp"`
}

// BadgeOverview counts awards per badge type.
type BadgeOverview struct {
	ID     string               `json:"id"`
	Counts map[BadgeType]uint64 `json:"counts"`
}
