// Package tradier is a minimal client for the Tradier brokerage REST API:
// user profile lookup, time-and-sales history, and equity order placement.
package tradier

// Endpoints selected at login time. The account kind "Real" trades live;
// anything else stays in the sandbox.
const (
	LiveEndpoint    = "https://api.tradier.com"
	SandboxEndpoint = "https://sandbox.tradier.com"
)

// Config carries the endpoint and access token every API call needs. It is
// established once at login and read by every later data and order call.
type Config struct {
	Endpoint string
	Token    string
}

// Side is an order direction in Tradier's wire vocabulary.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Account is one brokerage account in a user profile.
type Account struct {
	AccountNumber string `json:"account_number"`
	Type          string `json:"type"`
	Status        string `json:"status"`
}

// Profile is the authenticated user's profile with its account list.
type Profile struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Account []Account `json:"account"`
}

type profileResponse struct {
	Profile Profile `json:"profile"`
}

// Bar is one OHLCV interval from the time-and-sales endpoint. The endpoint
// returns bars oldest first.
type Bar struct {
	Time      string  `json:"time"`
	Timestamp int64   `json:"timestamp"` // Unix seconds
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

type timesalesResponse struct {
	Series struct {
		Data []Bar `json:"data"`
	} `json:"series"`
}

// OrderRequest describes a single equity order.
type OrderRequest struct {
	Symbol   string
	Side     Side
	Quantity uint64
	Type     string // "market"
	Duration string // "gtc"
}

type orderResponse struct {
	Order struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
	} `json:"order"`
}
