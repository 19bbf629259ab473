package reverb

// Preset is a named default parameter set.
type Preset struct {
	Key  string
	Name string
	Params
}

var presets = []Preset{
	{Key: "smallRoom", Name: "Small Room", Params: Params{Decay: 0.4, PreDelay: 0.005, Tone: 8000}},
	{Key: "mediumRoom", Name: "Medium Room", Params: Params{Decay: 1.2, PreDelay: 0.010, Tone: 6000}},
	{Key: "largeHall", Name: "Large Hall", Params: Params{Decay: 3.5, PreDelay: 0.025, Tone: 4000}},
	{Key: "plate", Name: "Plate", Params: Params{Decay: 2.0, PreDelay: 0, Tone: 12000}},
	{Key: "bathroom", Name: "Bathroom", Params: Params{Decay: 0.8, PreDelay: 0.002, Tone: 10000}},
	{Key: "cathedral", Name: "Cathedral", Params: Params{Decay: 6.0, PreDelay: 0.040, Tone: 3000}},
}

// DefaultPreset is the key of the preset selected when none is given.
const DefaultPreset = "smallRoom"

// Presets returns the built-in presets in display order.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// LookupPreset finds a preset by key.
func LookupPreset(key string) (Preset, bool) {
	for _, p := range presets {
		if p.Key == key {
			return p, true
		}
	}
	return Preset{}, false
}
