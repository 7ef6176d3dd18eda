package app

import (
	"github.com/google/uuid"

	"github.com/riyqnn/pulsee/internal/domain"
)

// newMintAddress generates the unique mint identity for a freshly issued
// ticket. The random UUID is folded through the derivation hash so mints are
// shaped like every other address in the system.
func newMintAddress() domain.Address {
	addr, _ := domain.Derive([]byte("mint"), []byte(uuid.NewString()))
	return addr
}
