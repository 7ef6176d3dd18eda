package domain

// Wallet is a balance-bearing account. The storage layer moves value between
// wallets with a checked debit and credit inside the same transaction as the
// bookkeeping that accompanies the transfer.
type Wallet struct {
	Address Address
	Balance uint64
}
