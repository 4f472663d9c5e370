// Package reveal tracks which project card, if any, shows its description
// layer instead of its image layer.
//
// The top TriggerFraction of a card is the image hot-zone: a pointer there
// keeps (or returns) the card to its thumbnail. Anywhere below reveals the
// description. The zone is recomputed on every move, so moving back up into
// the band during the same hover returns the card to its image.
package reveal

import (
	"errors"
	"fmt"
)

// TriggerFraction is the share of a card's height, measured from the top,
// that forces the image view.
const TriggerFraction = 0.3

// Zone is the region of a card under the pointer.
type Zone int

const (
	ZoneImage Zone = iota
	ZoneReveal
)

func (z Zone) String() string {
	if z == ZoneReveal {
		return "reveal"
	}
	return "image"
}

// ZoneAt maps a vertical offset within a card to its zone. Offsets that do
// not compare (NaN) keep the image.
func ZoneAt(offset, height float64) Zone {
	if height > 0 && offset >= height*TriggerFraction {
		return ZoneReveal
	}
	return ZoneImage
}

// State is the revealed card index, or None.
type State int

// None means every card shows its image.
const None State = -1

// ErrIndexOutOfRange is returned for pointer events on cards that do not exist.
var ErrIndexOutOfRange = errors.New("reveal: card index out of range")

// Controller holds the reveal state for a fixed number of cards. It is not
// safe for concurrent use.
type Controller struct {
	cards int
	state State
}

// NewController returns a controller for cards cards with nothing revealed.
func NewController(cards int) *Controller {
	if cards < 0 {
		cards = 0
	}
	return &Controller{cards: cards, state: None}
}

// PointerMove handles a pointer at offset within card index of the given height.
func (c *Controller) PointerMove(index int, offset, height float64) (State, error) {
	if index < 0 || index >= c.cards {
		return c.state, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, c.cards)
	}
	if ZoneAt(offset, height) == ZoneReveal {
		c.state = State(index)
	} else {
		c.state = None
	}
	return c.state, nil
}

// PointerLeave handles the pointer leaving a card.
func (c *Controller) PointerLeave() State {
	c.state = None
	return c.state
}

// State returns the current state.
func (c *Controller) State() State { return c.state }

// Revealed reports whether card index shows its description.
func (c *Controller) Revealed(index int) bool {
	return c.state != None && int(c.state) == index
}
