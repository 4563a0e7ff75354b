package model

// NotificationSettings toggles individual notification kinds.
type NotificationSettings struct {
	StateChange     bool `json:"stateChange"`
	GoalAchieved    bool `json:"goalAchieved"`
	LongDistraction bool `json:"longDistraction"`
}

// Settings holds user preferences persisted alongside projects and logs.
// Threshold fields are in seconds.
type Settings struct {
	RestingThreshold     int                  `json:"restingThreshold"`
	SleepingThreshold    int                  `json:"sleepingThreshold"`
	HardworkingThreshold int                  `json:"hardworkingThreshold"`
	OverlayTransparency  int                  `json:"overlayTransparency"`
	OverlaySize          int                  `json:"overlaySize"`
	TextSize             int                  `json:"textSize"`
	AutoStart            bool                 `json:"autoStart"`
	ThemeColor           string               `json:"themeColor"`
	Notifications        NotificationSettings `json:"notifications"`
}

// DefaultSettings returns the settings used before the user changes anything.
func DefaultSettings() Settings {
	return Settings{
		RestingThreshold:     300,
		SleepingThreshold:    1800,
		HardworkingThreshold: 1200,
		OverlayTransparency:  90,
		OverlaySize:          100,
		TextSize:             14,
		AutoStart:            false,
		ThemeColor:           "#4a90d9",
		Notifications: NotificationSettings{
			StateChange:     true,
			GoalAchieved:    true,
			LongDistraction: true,
		},
	}
}

// Normalize fills zero or out-of-range fields from the defaults. Documents
// written by older revisions may be missing whole sections.
func (settings *Settings) Normalize() {
	defaults := DefaultSettings()
	if settings.RestingThreshold <= 0 {
		settings.RestingThreshold = defaults.RestingThreshold
	}
	if settings.SleepingThreshold <= 0 {
		settings.SleepingThreshold = defaults.SleepingThreshold
	}
	if settings.HardworkingThreshold <= 0 {
		settings.HardworkingThreshold = defaults.HardworkingThreshold
	}
	if settings.OverlayTransparency <= 0 || settings.OverlayTransparency > 100 {
		settings.OverlayTransparency = defaults.OverlayTransparency
	}
	if settings.OverlaySize <= 0 {
		settings.OverlaySize = defaults.OverlaySize
	}
	if settings.TextSize <= 0 {
		settings.TextSize = defaults.TextSize
	}
	if settings.ThemeColor == "" {
		settings.ThemeColor = defaults.ThemeColor
	}
}
