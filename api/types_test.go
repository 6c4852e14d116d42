package api

import "testing"

func TestAnimationDescriptor_Labels(t *testing.T) {
	size := func(n int64) *int64 { return &n }
	dur := func(n int) *int { return &n }

	tests := []struct {
		name         string
		d            AnimationDescriptor
		wantSize     string
		wantDuration string
	}{
		{name: "unknown", d: AnimationDescriptor{}, wantSize: "-", wantDuration: "-"},
		{name: "bytes", d: AnimationDescriptor{SizeBytes: size(512), DurationMs: dur(0)}, wantSize: "512 B", wantDuration: "0.0s"},
		{name: "kilobytes", d: AnimationDescriptor{SizeBytes: size(2048), DurationMs: dur(1500)}, wantSize: "2.0 KB", wantDuration: "1.5s"},
		{name: "megabytes", d: AnimationDescriptor{SizeBytes: size(3 << 20), DurationMs: dur(12000)}, wantSize: "3.0 MB", wantDuration: "12.0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.d.SizeLabel(); got != tt.wantSize {
				t.Errorf("SizeLabel() = %q, want %q", got, tt.wantSize)
			}
			if got := tt.d.DurationLabel(); got != tt.wantDuration {
				t.Errorf("DurationLabel() = %q, want %q", got, tt.wantDuration)
			}
		})
	}
}

func TestAnimationDescriptor_DescriptionOr(t *testing.T) {
	desc := "spinner"
	if got := (AnimationDescriptor{Description: &desc}).DescriptionOr("none"); got != "spinner" {
		t.Errorf("Expected description, got %q", got)
	}
	if got := (AnimationDescriptor{}).DescriptionOr("none"); got != "none" {
		t.Errorf("Expected fallback, got %q", got)
	}
}
