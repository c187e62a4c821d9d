package proto

const (
	V1Provider   = "/v1/provider"
	V1StatusPing = "/v1/status/ping"
	V1StatusNode = "/v1/status/node"
)

const (
	// QueryType and QueryName identify a provider config in DELETE requests
	QueryType = "type"
	QueryName = "name"
)

// ProviderResponse acknowledges a provider config mutation
type ProviderResponse struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

type NodeResponse struct {
	Id        string `json:"id"`
	Advertise string `json:"advertise,omitempty"`
	Version   string `json:"version"`
	API       string `json:"api"`
}
