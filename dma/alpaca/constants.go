package alpaca

// Endpoints for the order management API. The paper endpoint trades against
// a simulated account and is the default for a [Client].
const (
	PaperURL = "https://paper-api.alpaca.markets"
	LiveURL  = "https://api.alpaca.markets"
)

// Authentication headers sent with every request.
const (
	KeyIDHeader     = "APCA-API-KEY-ID"
	SecretKeyHeader = "APCA-API-SECRET-KEY"
)
