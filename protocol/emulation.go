package protocol

type setUserAgentOverrideParams struct {
	UserAgent      string `json:"userAgent"`
	AcceptLanguage string `json:"acceptLanguage,omitempty"`
	Platform       string `json:"platform,omitempty"`
}

type setDeviceMetricsParams struct {
	Width             int     `json:"width"`
	Height            int     `json:"height"`
	DeviceScaleFactor float64 `json:"deviceScaleFactor"`
	Mobile            bool    `json:"mobile"`
}

// EmulationSetUserAgentOverride builds Emulation.setUserAgentOverride.
func EmulationSetUserAgentOverride(userAgent, acceptLanguage, platform string) *Command {
	return newCommand("Emulation.setUserAgentOverride", setUserAgentOverrideParams{
		UserAgent:      userAgent,
		AcceptLanguage: acceptLanguage,
		Platform:       platform,
	})
}

// EmulationSetDeviceMetricsOverride builds
// Emulation.setDeviceMetricsOverride.
func EmulationSetDeviceMetricsOverride(width, height int, deviceScaleFactor float64, mobile bool) *Command {
	return newCommand("Emulation.setDeviceMetricsOverride", setDeviceMetricsParams{
		Width:             width,
		Height:            height,
		DeviceScaleFactor: deviceScaleFactor,
		Mobile:            mobile,
	})
}

// EmulationClearDeviceMetricsOverride builds
// Emulation.clearDeviceMetricsOverride.
func EmulationClearDeviceMetricsOverride() *Command {
	return newCommand("Emulation.clearDeviceMetricsOverride", nil)
}
