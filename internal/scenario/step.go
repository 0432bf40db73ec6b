package scenario

// Step is a stage of the settings-window troubleshooter.
type Step int

const (
	StepIdle Step = iota
	StepWifiCheck
	StepPasswordEntry
	StepAdapterCheck
	StepAutomaticFix
	StepComplete
	StepProxyCheck
	StepDriverUpdateCheck
	StepFixFailed
)

var stepNames = map[Step]string{
	StepIdle:              "idle",
	StepWifiCheck:         "wifi_check",
	StepPasswordEntry:     "password_entry",
	StepAdapterCheck:      "adapter_check",
	StepAutomaticFix:      "automatic_fix",
	StepComplete:          "complete",
	StepProxyCheck:        "proxy_check",
	StepDriverUpdateCheck: "driver_update_check",
	StepFixFailed:         "fix_failed",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return "unknown"
}
