package models

// DefaultTriggerPort is the loopback port the trigger listener binds.
const DefaultTriggerPort = 49152

// TriggerConfig holds loopback trigger settings.
type TriggerConfig struct {
	Port      int `yaml:"port"`
	CursorGap int `yaml:"cursor_gap"` // added to the cursor Y before positioning
	// Companion is an optional helper started with the daemon and stopped
	// on quit, e.g. a hotkey script that posts to the trigger listener.
	Companion []string `yaml:"companion,omitempty"`
}

// OverlayConfig holds the initial overlay footprint in pixels.
type OverlayConfig struct {
	Width   int `yaml:"width"`
	Height  int `yaml:"height"`
	OffsetY int `yaml:"offset_y"`
}

// AppearanceConfig holds content layout settings.
type AppearanceConfig struct {
	IconsPerRow  int    `yaml:"icons_per_row"`
	ShowUnsorted bool   `yaml:"show_unsorted"`
	CellWidth    int    `yaml:"cell_width"`  // terminal cell width in pixels
	CellHeight   int    `yaml:"cell_height"` // terminal cell height in pixels
	AccentColor  string `yaml:"accent_color"`
	TextColor    string `yaml:"text_color"`
}

// TerminalConfig describes how content windows are launched.
// Command is followed by the content argv, e.g. ["xterm", "-e"].
type TerminalConfig struct {
	Command []string `yaml:"command"`
}

// SettingsWindowConfig holds the settings window footprint in pixels.
type SettingsWindowConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Settings represents global application settings.
// This corresponds to ~/.popsearch/settings.yaml.
type Settings struct {
	Version        int                  `yaml:"version"`
	Trigger        TriggerConfig        `yaml:"trigger"`
	Overlay        OverlayConfig        `yaml:"overlay"`
	SettingsWindow SettingsWindowConfig `yaml:"settings_window"`
	Appearance     AppearanceConfig     `yaml:"appearance"`
	Terminal       TerminalConfig       `yaml:"terminal"`
}

// NewSettings creates settings with default values.
func NewSettings() *Settings {
	return &Settings{
		Version: 1,
		Trigger: TriggerConfig{
			Port:      DefaultTriggerPort,
			CursorGap: 20,
		},
		Overlay: OverlayConfig{
			Width:   400,
			Height:  60,
			OffsetY: 5,
		},
		SettingsWindow: SettingsWindowConfig{
			Width:  800,
			Height: 600,
		},
		Appearance: AppearanceConfig{
			IconsPerRow:  8,
			ShowUnsorted: false,
			CellWidth:    9,
			CellHeight:   18,
			AccentColor:  "#5900ff",
			TextColor:    "#00f2ff",
		},
		Terminal: TerminalConfig{
			Command: []string{"xterm", "-class", "PopSearch", "-e"},
		},
	}
}

// Normalize fills zero values left by partial settings files.
func (s *Settings) Normalize() {
	def := NewSettings()
	if s.Trigger.Port == 0 {
		s.Trigger.Port = def.Trigger.Port
	}
	if s.Overlay.Width <= 0 || s.Overlay.Height <= 0 {
		s.Overlay.Width, s.Overlay.Height = def.Overlay.Width, def.Overlay.Height
	}
	if s.SettingsWindow.Width <= 0 || s.SettingsWindow.Height <= 0 {
		s.SettingsWindow = def.SettingsWindow
	}
	if s.Appearance.IconsPerRow <= 0 {
		s.Appearance.IconsPerRow = def.Appearance.IconsPerRow
	}
	if s.Appearance.CellWidth <= 0 || s.Appearance.CellHeight <= 0 {
		s.Appearance.CellWidth, s.Appearance.CellHeight = def.Appearance.CellWidth, def.Appearance.CellHeight
	}
	if len(s.Terminal.Command) == 0 {
		s.Terminal.Command = def.Terminal.Command
	}
}
