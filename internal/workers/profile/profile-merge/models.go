// internal/workers/profile/profile-merge/models.go
package profilemerge

import (
	"encoding/json"

	"github.com/sorabhv/social-media-strategist/internal/models"
)

// Profile actions.
const (
	ActionRead    = "read"
	ActionConfirm = "confirm"
	ActionMerge   = "merge"
	ActionReplace = "replace"
)

// Profile states returned to the workflow.
const (
	StateAwaitingConfirmation = "awaiting_confirmation"
	StateConfirmed            = "confirmed"
	StateReplaced             = "replaced"
)

type Input struct {
	ProfileID string `json:"profileId"`
	Action    string `json:"action"`

	// Delta is kept raw so the schema check sees exactly what the caller
	// sent, unknown fields included.
	Delta json.RawMessage `json:"delta,omitempty"`

	// ExpectedLastUpdated enables the merge conflict check. Optional.
	ExpectedLastUpdated string `json:"expectedLastUpdated,omitempty"`
}

type Output struct {
	ProfileID string                 `json:"profileId"`
	State     string                 `json:"state"`
	Profile   models.BusinessProfile `json:"profile"`
	IsNew     bool                   `json:"isNew"`
}
