package models

// Coordinates is a GPS coordinate pair. Both values must have been supplied
// and parsed successfully; a lone latitude or longitude never forms a pair.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// LabelContext carries the optional metadata accompanying a label photo.
// Zero values mean the field was not supplied.
type LabelContext struct {
	ShopName string
	Coords   *Coordinates
	DateTime string
	HintText string
}
