package entity

// ContractKind classifies what a contract exposes: fungible loyalty points
// or per-token collectibles.
type ContractKind string

const (
	ContractPoints      ContractKind = "points"
	ContractCollectible ContractKind = "collectible"
	ContractUnknown     ContractKind = "unknown"
)

// Contract is the decoded overview of a token contract.
// TotalSupply is decimal text; supplies routinely exceed 53 bits.
type Contract struct {
	Address     string       `json:"address"`
	Kind        ContractKind `json:"kind"`
	Name        string       `json:"name,omitempty"`
	Symbol      string       `json:"symbol,omitempty"`
	Decimals    int          `json:"decimals,omitempty"`
	TotalSupply string       `json:"totalSupply,omitempty"`
	Metadata    *Value       `json:"metadata,omitempty"`
}

// TokenMetadata is the decoded metadata of a single collectible token.
// The conventional keys are lifted out of Raw when present; their absence is
// not an error, and Raw always carries the full decoded value.
type TokenMetadata struct {
	TokenID      string `json:"tokenId"`
	Name         string `json:"name,omitempty"`
	Description  string `json:"description,omitempty"`
	Image        string `json:"image,omitempty"`
	ExternalLink string `json:"external_link,omitempty"`
	BannerImage  string `json:"banner_image,omitempty"`
	Attributes   *Value `json:"attributes,omitempty"`
	Raw          Value  `json:"raw"`
}

// MetadataFromValue lifts the conventional metadata keys out of a decoded
// value. Non-mapping values leave only Raw populated.
func MetadataFromValue(tokenID string, v Value) TokenMetadata {
	md := TokenMetadata{TokenID: tokenID, Raw: v}
	if v.Kind != KindMapping {
		return md
	}
	md.Name = textKey(v, "name")
	md.Description = textKey(v, "description")
	md.Image = textKey(v, "image")
	md.ExternalLink = textKey(v, "external_link")
	md.BannerImage = textKey(v, "banner_image")
	if attrs, ok := v.Get("attributes"); ok && !attrs.IsNull() {
		md.Attributes = &attrs
	}
	return md
}

func textKey(v Value, key string) string {
	e, ok := v.Get(key)
	if !ok {
		return ""
	}
	s, _ := e.AsText()
	return s
}

// GatewayStatus holds the checked state of one JSON-RPC gateway endpoint.
type GatewayStatus struct {
	URL       string `json:"url"`
	Protocol  string `json:"protocol"`
	IsWorking bool   `json:"isWorking"`
	LatencyMs int64  `json:"latencyMs,omitempty"`
}
