package domain

import "errors"

// Authorization errors: the caller's identity does not match the stored
// authority for the record it is trying to mutate.
var (
	ErrUnauthorized = errors.New("unauthorized")
)

// Timing and lifecycle-state errors.
var (
	ErrInvalidEventTiming        = errors.New("invalid event timing")
	ErrEventNotActive            = errors.New("event is not active")
	ErrEventNotOngoing           = errors.New("event is not ongoing")
	ErrEventCancelled            = errors.New("event is cancelled")
	ErrEventAlreadyCancelled     = errors.New("event already cancelled")
	ErrSaleAlreadyStarted        = errors.New("ticket sale already started")
	ErrTierNotActive             = errors.New("tier is not active")
	ErrTicketNotActive           = errors.New("ticket is not active")
	ErrAgentInactive             = errors.New("agent is inactive")
	ErrAutoPurchaseDisabled      = errors.New("auto-purchase is disabled")
	ErrPreferenceMismatch        = errors.New("agent preferences do not match")
	ErrCannotListAfterEventStart = errors.New("cannot list after event start")
	ErrListingNotActive          = errors.New("listing is not active")
	ErrListingExpired            = errors.New("listing expired")
	ErrListingNotExpired         = errors.New("listing not yet expired")
	ErrOfferNotActive            = errors.New("offer is not active")
	ErrOfferExpired              = errors.New("offer expired")
	ErrOffersNotAccepted         = errors.New("listing does not accept offers")
	ErrGroupNotActive            = errors.New("coordination group is not active")
	ErrGroupExpired              = errors.New("coordination group expired")
	ErrCoordinationDisabled      = errors.New("agent coordination is disabled")
	ErrVerificationRequired      = errors.New("user verification required")
)

// Capacity errors: retryable by the caller once the contended resource frees
// up; never caused by malformed input.
var (
	ErrTierSoldOut               = errors.New("tier is sold out")
	ErrMaxTicketsPerUserExceeded = errors.New("max tickets per user exceeded")
	ErrInsufficientAgentBudget   = errors.New("insufficient agent budget")
	ErrInsufficientEscrowBalance = errors.New("insufficient escrow balance")
	ErrInsufficientFunds         = errors.New("insufficient wallet balance")
	ErrGroupFull                 = errors.New("coordination group is full")
)

// Input validation errors.
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidPrice     = errors.New("invalid price")
	ErrInvalidSupply    = errors.New("invalid supply")
	ErrInvalidBudget    = errors.New("invalid budget")
	ErrInvalidBps       = errors.New("invalid basis points - must be 0-10000")
	ErrInvalidDuration  = errors.New("invalid duration")
	ErrInvalidSaleType  = errors.New("invalid sale type")
	ErrPriceCapExceeded = errors.New("price cap exceeded")
)

// Arithmetic errors: any checked operation that would wrap aborts the whole
// transaction with one of these.
var (
	ErrMathOverflow  = errors.New("math operation overflow")
	ErrMathUnderflow = errors.New("math operation underflow")
)

// Existence and uniqueness errors surfaced by the storage layer.
var (
	ErrConfigNotFound  = errors.New("config not found")
	ErrConfigExists    = errors.New("config already initialized")
	ErrEventNotFound   = errors.New("event not found")
	ErrEventExists     = errors.New("event already exists")
	ErrTierNotFound    = errors.New("tier not found")
	ErrTierExists      = errors.New("tier already exists")
	ErrUserNotFound    = errors.New("user not found")
	ErrUserExists      = errors.New("user already exists")
	ErrAgentNotFound   = errors.New("agent not found")
	ErrAgentExists     = errors.New("agent already exists")
	ErrEscrowNotFound  = errors.New("escrow not found")
	ErrEscrowExists    = errors.New("escrow already exists")
	ErrTicketNotFound  = errors.New("ticket not found")
	ErrListingNotFound = errors.New("listing not found")
	ErrListingExists   = errors.New("listing already exists")
	ErrOfferNotFound   = errors.New("offer not found")
	ErrOfferExists     = errors.New("offer already exists")
	ErrGroupNotFound   = errors.New("coordination group not found")
	ErrGroupExists     = errors.New("coordination group already exists")
	ErrAlreadyInGroup  = errors.New("agent already in a coordination group")
	ErrWalletNotFound  = errors.New("wallet not found")
)
