package views

import "github.com/jscyril/flowaudio/api"

// State is everything the screen renders, captured on the audio loop
type State struct {
	Settings api.Settings
	Player   api.PlayerState
	Tracks   []*api.Clip
}
