// pkg/registry/schema.go
package registry

// StageRegistry catalogs the pipeline's worker stages for tooling and
// workflow documentation.
type StageRegistry struct {
	Version     string  `json:"version"`
	LastUpdated string  `json:"lastUpdated"`
	Stages      []Stage `json:"stages"`
}

type Stage struct {
	ID           string                 `json:"id"`
	DisplayName  string                 `json:"displayName"`
	Description  string                 `json:"description"`
	Category     string                 `json:"category"` // trends, planning, profile
	Version      string                 `json:"version"`
	TaskType     string                 `json:"taskType"`
	InputSchema  map[string]interface{} `json:"inputSchema"`
	OutputSchema map[string]interface{} `json:"outputSchema"`
	ErrorCodes   []string               `json:"errorCodes"`
	Timeout      string                 `json:"timeout"`
	Retries      int                    `json:"retries"`
	Upstream     []string               `json:"upstream"` // stage IDs this one consumes
	Tags         []string               `json:"tags"`
}
