package scenario

// Device identifiers in the simulated device manager.
const (
	DeviceBluetooth = "bt"
	DeviceAudio     = "audio"
	DeviceNetwork   = "net"
)

// Device is an entry in the simulated device manager.
type Device struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Enabled     bool   `json:"enabled"`
	FaultSource bool   `json:"fault_source,omitempty"`
}

// DefaultDevices returns a fresh copy of the three-device seed.
func DefaultDevices() []Device {
	return []Device{
		{ID: DeviceBluetooth, Name: "Bluetooth Adapter", Enabled: true},
		{ID: DeviceAudio, Name: "Realtek Audio", Enabled: true},
		{ID: DeviceNetwork, Name: "Intel(R) Wireless-AC", Enabled: true},
	}
}

// Derived is the simulated environment a scenario stages.
type Derived struct {
	AirplaneMode       bool
	ProxyMisconfigured bool
	DriverOutdated     bool
	Devices            []Device
}

// Derive computes the staged environment for s. The result shares no
// memory with earlier calls.
func Derive(s Scenario) Derived {
	devices := DefaultDevices()
	if s == AdapterDisabled {
		for i := range devices {
			if devices[i].ID == DeviceNetwork {
				devices[i].Enabled = false
				devices[i].FaultSource = true
			}
		}
	}
	return Derived{
		AirplaneMode:       s == AirplaneModeOn,
		ProxyMisconfigured: s == ProxyWrong,
		DriverOutdated:     s == DriverOutdated,
		Devices:            devices,
	}
}

// Select draws a scenario from p and derives its state.
func Select(p Picker) (Scenario, Derived) {
	if p == nil {
		p = RandomPicker{}
	}
	s := p.Pick()
	return s, Derive(s)
}

// FaultSource returns the index of the fault-source device, or -1.
func FaultSource(devices []Device) int {
	for i, d := range devices {
		if d.FaultSource {
			return i
		}
	}
	return -1
}
