package domain

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Address identifies a wallet or a derived record. Derived addresses are
// computed from a seed tuple so any party holding the same seeds can locate
// the record; they carry no authority by themselves.
type Address string

const deriveNamespace = "pulsee/v1"

// Derive computes the deterministic address for a seed tuple. Seeds are
// length-prefixed before hashing so tuple boundaries cannot be forged by
// concatenation.
func Derive(seeds ...[]byte) (Address, uint8) {
	h := blake3.New()
	_, _ = h.Write([]byte(deriveNamespace))
	var prefix [4]byte
	for _, seed := range seeds {
		binary.BigEndian.PutUint32(prefix[:], uint32(len(seed)))
		_, _ = h.Write(prefix[:])
		_, _ = h.Write(seed)
	}
	sum := h.Sum(nil)
	return Address(hex.EncodeToString(sum)), sum[len(sum)-1]
}

func ConfigAddress() (Address, uint8) {
	return Derive([]byte("config"))
}

func EventAddress(organizer Address, eventID string) (Address, uint8) {
	return Derive([]byte("event"), []byte(organizer), []byte(eventID))
}

func TierAddress(event Address, tierID string) (Address, uint8) {
	return Derive([]byte("tier"), []byte(event), []byte(tierID))
}

func UserAddress(owner Address) (Address, uint8) {
	return Derive([]byte("user"), []byte(owner))
}

func AgentAddress(owner Address, agentID string) (Address, uint8) {
	return Derive([]byte("agent"), []byte(owner), []byte(agentID))
}

func EscrowAddress(agent, owner Address) (Address, uint8) {
	return Derive([]byte("escrow"), []byte(agent), []byte(owner))
}

func TicketAddress(mint Address) (Address, uint8) {
	return Derive([]byte("ticket"), []byte(mint))
}

func ListingAddress(ticketMint Address, listingID string) (Address, uint8) {
	return Derive([]byte("listing"), []byte(ticketMint), []byte(listingID))
}

func OfferAddress(listing, buyer Address) (Address, uint8) {
	return Derive([]byte("offer"), []byte(listing), []byte(buyer))
}

func CoordinationAddress(event Address, groupID string) (Address, uint8) {
	return Derive([]byte("coordination"), []byte(event), []byte(groupID))
}

func TicketCounterAddress(user, event Address) (Address, uint8) {
	return Derive([]byte("user_ticket_counter"), []byte(user), []byte(event))
}
