package api

import (
	"encoding/json"
	"fmt"
	"strings"
)

// AnimationDescriptor describes one downloadable animation in the catalog
type AnimationDescriptor struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	URL         string  `json:"url"`
	Description *string `json:"description,omitempty"`
	SizeBytes   *int64  `json:"size,omitempty"`
	DurationMs  *int    `json:"duration,omitempty"`
}

// CatalogResponse is the body returned by the catalog endpoint
type CatalogResponse struct {
	Animations []AnimationDescriptor `json:"animations"`
}

// UnmarshalJSON decodes a descriptor, failing when a required field is absent.
// Unknown fields are ignored.
func (d *AnimationDescriptor) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID          *string `json:"id"`
		Name        *string `json:"name"`
		URL         *string `json:"url"`
		Description *string `json:"description"`
		Size        *int64  `json:"size"`
		Duration    *int    `json:"duration"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var missing []string
	if raw.ID == nil {
		missing = append(missing, "id")
	}
	if raw.Name == nil {
		missing = append(missing, "name")
	}
	if raw.URL == nil {
		missing = append(missing, "url")
	}
	if len(missing) > 0 {
		return fmt.Errorf("animation descriptor missing required field(s): %s", strings.Join(missing, ", "))
	}
	if raw.Size != nil && *raw.Size < 0 {
		return fmt.Errorf("animation %q has negative size %d", *raw.ID, *raw.Size)
	}
	if raw.Duration != nil && *raw.Duration < 0 {
		return fmt.Errorf("animation %q has negative duration %d", *raw.ID, *raw.Duration)
	}

	*d = AnimationDescriptor{
		ID:          *raw.ID,
		Name:        *raw.Name,
		URL:         *raw.URL,
		Description: raw.Description,
		SizeBytes:   raw.Size,
		DurationMs:  raw.Duration,
	}
	return nil
}

// UnmarshalJSON decodes a catalog response; the animations field is required
func (c *CatalogResponse) UnmarshalJSON(data []byte) error {
	var raw struct {
		Animations *[]AnimationDescriptor `json:"animations"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Animations == nil {
		return fmt.Errorf("catalog response missing required field: animations")
	}
	c.Animations = *raw.Animations
	return nil
}

// DescriptionOr returns the description or fallback when absent
func (d AnimationDescriptor) DescriptionOr(fallback string) string {
	if d.Description == nil {
		return fallback
	}
	return *d.Description
}

// SizeLabel formats SizeBytes for display, or "-" when unknown
func (d AnimationDescriptor) SizeLabel() string {
	if d.SizeBytes == nil {
		return "-"
	}
	size := float64(*d.SizeBytes)
	switch {
	case size >= 1<<20:
		return fmt.Sprintf("%.1f MB", size/(1<<20))
	case size >= 1<<10:
		return fmt.Sprintf("%.1f KB", size/(1<<10))
	default:
		return fmt.Sprintf("%d B", *d.SizeBytes)
	}
}

// DurationLabel formats DurationMs as seconds, or "-" when unknown
func (d AnimationDescriptor) DurationLabel() string {
	if d.DurationMs == nil {
		return "-"
	}
	return fmt.Sprintf("%.1fs", float64(*d.DurationMs)/1000)
}
