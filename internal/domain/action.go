package domain

// RewardAction is a platform action that earns tokens. Each action is its
// own type so the fields it needs are checked at compile time instead of
// being fished out of a metadata map.
type RewardAction interface {
	// Category is the transaction category recorded for the earn.
	Category() string
}

// ListingAction: owner listed an item for sale or exchange.
type ListingAction struct {
	Premium bool // featured/premium listing tier
	Quality bool // passed the quality review
}

func (ListingAction) Category() string { return CategoryListing }

// RepairAction: owner completed a repair through the repair café.
type RepairAction struct {
	Quality bool
}

func (RepairAction) Category() string { return CategoryRepair }

// UpcycleAction: owner submitted an approved upcycling project.
type UpcycleAction struct{}

func (UpcycleAction) Category() string { return CategoryUpcycle }

// ReferralAction: referred user completed signup.
type ReferralAction struct {
	ReferredOwnerID int64
}

func (ReferralAction) Category() string { return CategoryReferral }

// PurchaseAction: checkout completed; cashback is a percentage of the
// purchase value, which is denominated in token units.
type PurchaseAction struct {
	PurchaseValue int64
}

func (PurchaseAction) Category() string { return CategoryCashback }

// EventAttendanceAction: attendance marked for a community event.
type EventAttendanceAction struct {
	EventID string
}

func (EventAttendanceAction) Category() string { return CategoryEvent }
