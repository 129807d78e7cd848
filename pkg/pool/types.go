package pool

// Wire types for the privacy-pool provider's JSON API.

type deriveAddressRequest struct {
	PublicAddress string `json:"public_address"`
	NetworkID     uint64 `json:"network_id"`
}

type deriveAddressResponse struct {
	Address string `json:"address"`
}

type shieldRequest struct {
	Source    string `json:"source"`
	Token     string `json:"token"`
	Amount    string `json:"amount"`
	NetworkID uint64 `json:"network_id"`
}

type unshieldRequest struct {
	Destination string `json:"destination"`
	Token       string `json:"token"`
	Amount      string `json:"amount"`
	NetworkID   uint64 `json:"network_id"`
}

type operationResponse struct {
	OperationRef string `json:"operation_ref"`
	State        string `json:"state"`
}

type operationStateResponse struct {
	State string `json:"state"`
}

type balanceResponse struct {
	Balance string `json:"balance"`
}

type errorResponse struct {
	Error string `json:"error"`
}
