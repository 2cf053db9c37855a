package model

import "time"

type ListingStatus string

const (
	ListingStatusAvailable ListingStatus = "AVAILABLE"
	ListingStatusLocked    ListingStatus = "LOCKED"
	ListingStatusTraded    ListingStatus = "TRADED"
	ListingStatusDeleted   ListingStatus = "DELETED"
)

// legacyListingStatus maps the older status vocabulary onto the canonical
// set: ACTIVE was AVAILABLE, PENDING was LOCKED, COMPLETED was TRADED.
var legacyListingStatus = map[string]ListingStatus{
	"AVAILABLE": ListingStatusAvailable,
	"ACTIVE":    ListingStatusAvailable,
	"LOCKED":    ListingStatusLocked,
	"PENDING":   ListingStatusLocked,
	"TRADED":    ListingStatusTraded,
	"COMPLETED": ListingStatusTraded,
	"DELETED":   ListingStatusDeleted,
}

// CanonicalListingStatus resolves a stored status value, accepting legacy
// spellings. The second return is false for values outside both vocabularies.
func CanonicalListingStatus(raw string) (ListingStatus, bool) {
	s, ok := legacyListingStatus[raw]
	return s, ok
}

type Listing struct {
	ID                 uint64        `gorm:"primaryKey;autoIncrement"`
	OwnerUID           string        `gorm:"column:owner_uid;size:128;index;not null"`
	Title              string        `gorm:"size:150;not null"`
	Description        string        `gorm:"type:text"`
	ImageURL           *string       `gorm:"size:512"`
	Status             ListingStatus `gorm:"size:16;not null"`
	LockedByProposalID *uint64       `gorm:"column:locked_by_proposal_id;index"`
	CreatedAt          time.Time     `gorm:"autoCreateTime"`
	UpdatedAt          time.Time     `gorm:"autoUpdateTime"`
}

func (Listing) TableName() string {
	return "listings"
}
