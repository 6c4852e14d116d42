package theme

import "testing"

func newTestDetector(env map[string]string, dark bool) *Detector {
	return &Detector{
		getenv:        func(k string) string { return env[k] },
		hasDarkBackground: func() bool { return dark },
	}
}

func TestDetector_DetectTheme(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		dark bool
		want Theme
	}{
		{name: "override light", env: map[string]string{"LOTTIE_THEME": "Light", "COLORFGBG": "15;0"}, dark: true, want: ThemeLight},
		{name: "override dark", env: map[string]string{"LOTTIE_THEME": "dark"}, dark: false, want: ThemeDark},
		{name: "colorfgbg light", env: map[string]string{"COLORFGBG": "0;15"}, dark: true, want: ThemeLight},
		{name: "colorfgbg dark", env: map[string]string{"COLORFGBG": "15;0"}, dark: false, want: ThemeDark},
		{name: "colorfgbg three fields", env: map[string]string{"COLORFGBG": "0;default;15"}, dark: true, want: ThemeLight},
		{name: "terminal light background", env: map[string]string{"TERM": "xterm-256color"}, dark: false, want: ThemeLight},
		{name: "no color ignores terminal", env: map[string]string{"TERM": "xterm-256color", "NO_COLOR": "1"}, dark: false, want: ThemeDark},
		{name: "dumb terminal", env: map[string]string{"TERM": "dumb"}, dark: false, want: ThemeDark},
		{name: "nothing known", env: map[string]string{}, dark: false, want: ThemeDark},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := newTestDetector(tt.env, tt.dark).DetectTheme(); got != tt.want {
				t.Errorf("DetectTheme() = %v, want %v", got, tt.want)
			}
		})
	}
}
