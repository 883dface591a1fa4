// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	up         key.Binding
	down       key.Binding
	collapse   key.Binding
	expand     key.Binding
	toggle     key.Binding
	done       key.Binding
	newItem    key.Binding
	addChild   key.Binding
	edit       key.Binding
	delete     key.Binding
	restore    key.Binding
	emptyTrash key.Binding
	showTrash  key.Binding
	memo       key.Binding
	copy       key.Binding
	sync       key.Binding
	enter      key.Binding
	esc        key.Binding
	save       key.Binding
	yes        key.Binding
	no         key.Binding
	quit       key.Binding
}

var keys = keyMap{
	up:         key.NewBinding(key.WithKeys("up", "k")),
	down:       key.NewBinding(key.WithKeys("down", "j")),
	collapse:   key.NewBinding(key.WithKeys("left", "h")),
	expand:     key.NewBinding(key.WithKeys("right", "l")),
	toggle:     key.NewBinding(key.WithKeys("enter")),
	done:       key.NewBinding(key.WithKeys(" ", "x")),
	newItem:    key.NewBinding(key.WithKeys("n")),
	addChild:   key.NewBinding(key.WithKeys("a")),
	edit:       key.NewBinding(key.WithKeys("e")),
	delete:     key.NewBinding(key.WithKeys("d")),
	restore:    key.NewBinding(key.WithKeys("r")),
	emptyTrash: key.NewBinding(key.WithKeys("E")),
	showTrash:  key.NewBinding(key.WithKeys("t")),
	memo:       key.NewBinding(key.WithKeys("m")),
	copy:       key.NewBinding(key.WithKeys("c")),
	sync:       key.NewBinding(key.WithKeys("s")),
	enter:      key.NewBinding(key.WithKeys("enter")),
	esc:        key.NewBinding(key.WithKeys("esc")),
	save:       key.NewBinding(key.WithKeys("ctrl+s")),
	yes:        key.NewBinding(key.WithKeys("y")),
	no:         key.NewBinding(key.WithKeys("n", "esc")),
	quit:       key.NewBinding(key.WithKeys("q", "ctrl+c")),
}

const (
	browseHelp = "↑/↓ move  ←/→ fold  space done  n new  a child  e edit  d trash  r restore  t show trash  E empty trash  m memo  c copy  s sync  q quit"
	inputHelp  = "enter save  esc cancel"
	memoHelp   = "ctrl+s save  esc cancel"
)
