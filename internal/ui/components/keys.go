package components

import "charm.land/bubbles/v2/key"

// Shared bindings for the list and row widgets.
var (
	keyPrev  = key.NewBinding(key.WithKeys("up", "k"))
	keyNext  = key.NewBinding(key.WithKeys("down", "j"))
	keyLeft  = key.NewBinding(key.WithKeys("left", "h", "shift+tab"))
	keyRight = key.NewBinding(key.WithKeys("right", "l", "tab"))
	keyEnter = key.NewBinding(key.WithKeys("enter"))
)
