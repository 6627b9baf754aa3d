package scene

// Defaults describe a 20ft container holding ten half-meter boxes.
const (
	DefaultLength     = 6.1  // 20ft
	DefaultWidth      = 2.44 // 8ft
	DefaultHeight     = 2.59 // 8.5ft
	DefaultItemWidth  = 1.0
	DefaultItemHeight = 0.5
	DefaultNumItems   = 10
	DefaultGap        = 0.1

	DefaultContainerColor = "#000000"
	DefaultDoorColor      = "#000000"
	DefaultFloorColor     = "#0000ff"
	DefaultFloorOpacity   = 0.2
	DefaultItemColor      = "#ff0000"
)

// Params holds every input of the layout. Values are used as given:
// zero or negative dimensions produce degenerate geometry, never an error.
type Params struct {
	Length float64 `json:"length" toml:"length" yaml:"length" bson:"length"`
	Width  float64 `json:"width" toml:"width" yaml:"width" bson:"width"`
	Height float64 `json:"height" toml:"height" yaml:"height" bson:"height"`

	ItemWidth  float64 `json:"item_width" toml:"item_width" yaml:"item_width" bson:"item_width"`
	ItemHeight float64 `json:"item_height" toml:"item_height" yaml:"item_height" bson:"item_height"`
	NumItems   int     `json:"num_items" toml:"num_items" yaml:"num_items" bson:"num_items"`
	Gap        float64 `json:"gap" toml:"gap" yaml:"gap" bson:"gap"`

	ContainerColor string  `json:"container_color" toml:"container_color" yaml:"container_color" bson:"container_color"`
	DoorColor      string  `json:"door_color" toml:"door_color" yaml:"door_color" bson:"door_color"`
	FloorColor     string  `json:"floor_color" toml:"floor_color" yaml:"floor_color" bson:"floor_color"`
	FloorOpacity   float64 `json:"floor_opacity" toml:"floor_opacity" yaml:"floor_opacity" bson:"floor_opacity"`
	ItemColor      string  `json:"item_color" toml:"item_color" yaml:"item_color" bson:"item_color"`
}

// DefaultParams returns the parameters of the initial scene.
func DefaultParams() Params {
	return Params{
		Length:         DefaultLength,
		Width:          DefaultWidth,
		Height:         DefaultHeight,
		ItemWidth:      DefaultItemWidth,
		ItemHeight:     DefaultItemHeight,
		NumItems:       DefaultNumItems,
		Gap:            DefaultGap,
		ContainerColor: DefaultContainerColor,
		DoorColor:      DefaultDoorColor,
		FloorColor:     DefaultFloorColor,
		FloorOpacity:   DefaultFloorOpacity,
		ItemColor:      DefaultItemColor,
	}
}

// WithColorDefaults fills empty color fields from the defaults.
// Numeric fields are left alone; zero is a legal (if degenerate) value.
func (p Params) WithColorDefaults() Params {
	if p.ContainerColor == "" {
		p.ContainerColor = DefaultContainerColor
	}
	if p.DoorColor == "" {
		p.DoorColor = DefaultDoorColor
	}
	if p.FloorColor == "" {
		p.FloorColor = DefaultFloorColor
	}
	if p.ItemColor == "" {
		p.ItemColor = DefaultItemColor
	}
	return p
}
