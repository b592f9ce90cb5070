package panel

import "sync"

// Console is an ordered set of mounted panels.
type Console struct {
	mu     sync.Mutex
	panels []*Panel
}

// NewConsole creates an empty console.
func NewConsole() *Console {
	return &Console{}
}

// Insert places p at index, clamped to the current bounds. A panel that is
// already mounted is moved.
func (c *Console) Insert(index int, p *Panel) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, existing := range c.panels {
		if existing == p {
			c.panels = append(c.panels[:i], c.panels[i+1:]...)
			break
		}
	}

	if index < 0 {
		index = 0
	}
	if index > len(c.panels) {
		index = len(c.panels)
	}

	c.panels = append(c.panels, nil)
	copy(c.panels[index+1:], c.panels[index:])
	c.panels[index] = p
}

// Panels returns the mounted panels in order.
func (c *Console) Panels() []*Panel {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]*Panel, len(c.panels))
	copy(out, c.panels)
	return out
}
