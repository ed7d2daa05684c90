// internal/models/profile.go
package models

// BusinessProfile is the durable description of the business the pipeline
// plans for. Pointer fields distinguish "not provided" from empty; a freshly
// read profile with no stored row has every field nil.
type BusinessProfile struct {
	BusinessName       *string  `json:"business_name,omitempty"`
	BusinessType       *string  `json:"business_type,omitempty"`
	Country            *string  `json:"country,omitempty"`
	LocationDetail     *string  `json:"location_detail,omitempty"`
	TargetAudience     *string  `json:"target_audience,omitempty"`
	BrandVoice         *string  `json:"brand_voice,omitempty"`
	ContentPreferences *string  `json:"content_preferences,omitempty"`
	PostingFrequency   *string  `json:"posting_frequency,omitempty"`
	Platforms          []string `json:"platforms,omitempty"`
	AdditionalNotes    *string  `json:"additional_notes,omitempty"`
	LastUpdated        *string  `json:"last_updated,omitempty"` // YYYY-MM-DD
}

// IsEmpty reports whether no field has ever been set. An empty profile is
// the sentinel for "no stored profile yet".
func (p BusinessProfile) IsEmpty() bool {
	return p.BusinessName == nil &&
		p.BusinessType == nil &&
		p.Country == nil &&
		p.LocationDetail == nil &&
		p.TargetAudience == nil &&
		p.BrandVoice == nil &&
		p.ContentPreferences == nil &&
		p.PostingFrequency == nil &&
		len(p.Platforms) == 0 &&
		p.AdditionalNotes == nil &&
		p.LastUpdated == nil
}

// ProfileDelta carries the fields of one merge. Only fields present in the
// source JSON are applied; absent fields never null out stored values.
type ProfileDelta struct {
	BusinessName       *string  `json:"business_name,omitempty"`
	BusinessType       *string  `json:"business_type,omitempty"`
	Country            *string  `json:"country,omitempty"`
	LocationDetail     *string  `json:"location_detail,omitempty"`
	TargetAudience     *string  `json:"target_audience,omitempty"`
	BrandVoice         *string  `json:"brand_voice,omitempty"`
	ContentPreferences *string  `json:"content_preferences,omitempty"`
	PostingFrequency   *string  `json:"posting_frequency,omitempty"`
	Platforms          []string `json:"platforms,omitempty"`
	AdditionalNotes    *string  `json:"additional_notes,omitempty"`
}

// Apply merges the delta onto a copy of the profile and returns it.
// Field-level: a nil delta field leaves the stored value untouched.
func (d ProfileDelta) Apply(p BusinessProfile) BusinessProfile {
	if d.BusinessName != nil {
		p.BusinessName = d.BusinessName
	}
	if d.BusinessType != nil {
		p.BusinessType = d.BusinessType
	}
	if d.Country != nil {
		p.Country = d.Country
	}
	if d.LocationDetail != nil {
		p.LocationDetail = d.LocationDetail
	}
	if d.TargetAudience != nil {
		p.TargetAudience = d.TargetAudience
	}
	if d.BrandVoice != nil {
		p.BrandVoice = d.BrandVoice
	}
	if d.ContentPreferences != nil {
		p.ContentPreferences = d.ContentPreferences
	}
	if d.PostingFrequency != nil {
		p.PostingFrequency = d.PostingFrequency
	}
	if len(d.Platforms) > 0 {
		p.Platforms = append([]string(nil), d.Platforms...)
	}
	if d.AdditionalNotes != nil {
		p.AdditionalNotes = d.AdditionalNotes
	}
	return p
}

// IsEmpty reports whether the delta carries no change at all.
func (d ProfileDelta) IsEmpty() bool {
	return d.BusinessName == nil &&
		d.BusinessType == nil &&
		d.Country == nil &&
		d.LocationDetail == nil &&
		d.TargetAudience == nil &&
		d.BrandVoice == nil &&
		d.ContentPreferences == nil &&
		d.PostingFrequency == nil &&
		len(d.Platforms) == 0 &&
		d.AdditionalNotes == nil
}

// StringPtr is a small helper for building profiles in code and tests.
func StringPtr(s string) *string {
	return &s
}
