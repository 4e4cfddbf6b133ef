// Package x402proto projects the compact on-air wire records to and from
// the textual JSON shapes the surrounding x402 ecosystem speaks: the
// "402 Payment Required" body a seller would otherwise serve over HTTP,
// and the "X-Payment" header a buyer would otherwise attach to a retried
// request. The acoustic channel never carries this JSON — it exists only
// at the boundary, for settlement collaborators that expect it.
package x402proto

// Extra carries the EIP-712 domain metadata (token name and version) a
// signer or facilitator needs to verify a signature without a chain
// lookup. It is fixed for USDC, the only asset this system settles.
type Extra struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// PaymentRequirements is one element of a PaymentRequired's "accepts"
// array — a single offer the buyer may satisfy.
type PaymentRequirements struct {
	Scheme            string `json:"scheme"`
	Network           string `json:"network"`
	MaxAmountRequired string `json:"maxAmountRequired"`
	Resource          string `json:"resource,omitempty"`
	Description       string `json:"description,omitempty"`
	MimeType          string `json:"mimeType,omitempty"`
	PayTo             string `json:"payTo"`
	MaxTimeoutSeconds uint32 `json:"maxTimeoutSeconds"`
	Asset             string `json:"asset"`
	Extra             Extra  `json:"extra"`
}

// PaymentRequired is the external "402 Payment Required" body, reconstructed
// from a decoded PaymentRequest plus the out-of-band metadata the wire
// format has no room for (spec section 4.2's "reconstructor").
type PaymentRequired struct {
	X402Version int                    `json:"x402Version"`
	Accepts     []PaymentRequirements  `json:"accepts"`
}

// EVMAuthorization is the EIP-3009 transferWithAuthorization parameter set,
// each value decimal- or hex-string-encoded the way the JSON form carries
// them.
type EVMAuthorization struct {
	From        string `json:"from"`
	To          string `json:"to"`
	Value       string `json:"value"`
	ValidAfter  string `json:"validAfter"`
	ValidBefore string `json:"validBefore"`
	Nonce       string `json:"nonce"`
}

// EVMPayload bundles a hex-encoded 65-byte ECDSA signature with the
// authorization it signs.
type EVMPayload struct {
	Signature     string           `json:"signature"`
	Authorization EVMAuthorization `json:"authorization"`
}

// PaymentPayload is the external "X-Payment" header body, reconstructed
// from a decoded PaymentResponse plus the originating request and the
// buyer's address.
type PaymentPayload struct {
	X402Version int        `json:"x402Version"`
	Scheme      string     `json:"scheme"`
	Network     string     `json:"network"`
	Payload     EVMPayload `json:"payload"`
}
