package director

// FlightLog is a YAML export of one camera session
type FlightLog struct {
	Version string       `yaml:"version"`
	Session string       `yaml:"session"`
	Started string       `yaml:"started"` // RFC 3339
	Frames  int          `yaml:"frames"`
	Turns   []LoggedTurn `yaml:"turns"`
	Final   LoggedPose   `yaml:"final"`
}

// LoggedTurn is one model turn and what the camera did with it
type LoggedTurn struct {
	Index        int    `yaml:"index"`
	Request      string `yaml:"request"`
	Raw          string `yaml:"raw"`
	Stage        string `yaml:"stage"`
	View         string `yaml:"view,omitempty"`
	Message      string `yaml:"message,omitempty"`
	Reply        string `yaml:"reply"`
	Frame        int    `yaml:"frame"`                   // Frame the turn arrived on
	SettledFrame int    `yaml:"settled_frame,omitempty"` // Frame the camera came to rest
	Fallback     bool   `yaml:"fallback,omitempty"`
}

// LoggedPose is a camera pose as plain vectors
type LoggedPose struct {
	Target   string    `yaml:"target"`
	Position []float64 `yaml:"position,flow"`
	Forward  []float64 `yaml:"forward,flow"`
}
