// Package registry anchors the blank imports that register the mapping
// modes with the pad registry.
package registry

import (
	_ "github.com/Jackbuthesuck/Controller-Wrapper-For-Sentakki-sub000/mode/keyboard" // Register keyboard mode
	_ "github.com/Jackbuthesuck/Controller-Wrapper-For-Sentakki-sub000/mode/mouse"    // Register mouse mode
	_ "github.com/Jackbuthesuck/Controller-Wrapper-For-Sentakki-sub000/mode/touch"    // Register touch mode
)
