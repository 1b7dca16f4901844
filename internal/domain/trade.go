package domain

// Trade represents a single swap/trade record for a wallet.
// Trades are collaborator-owned input: the engine reads them from the
// trade archive and never mutates them. Fee enrichment (if any) happens
// before the engine runs.
type Trade struct {
	ID        string   // unique trade identifier
	Wallet    string   // wallet address
	FromToken string   // source token address
	ToToken   string   // destination token address
	VolumeUSD float64  // trade size in USD
	FeeUSD    float64  // fee paid in USD (0 if unknown)
	ImpactBps *float64 // price impact in basis points (nullable, best-effort)
	Timestamp int64    // Unix timestamp in milliseconds
	Status    string   // only "success" trades are eligible
	SwapType  string   // "CLASSIC" | "LIMIT_ORDER", reporting only
}

// Trade status constants
const (
	TradeStatusSuccess = "success"
	TradeStatusFailed  = "failed"
)

// Swap type constants. SwapType never affects filtering, only the
// reporting breakdown on the weekly record.
const (
	SwapTypeClassic    = "CLASSIC"
	SwapTypeLimitOrder = "LIMIT_ORDER"
)
