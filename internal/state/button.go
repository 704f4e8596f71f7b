package state

import "github.com/dczia/Defcon32-Badge/internal/periph"

// pressLatch turns a level-sensitive button into a press event: Fired
// reports true only on the tick where the button goes from released to
// pressed, so holding the button does not retrigger.
type pressLatch struct {
	button  periph.Button
	wasDown bool
}

func (p *pressLatch) Fired() bool {
	down := p.button.Pressed()
	fired := down && !p.wasDown
	p.wasDown = down
	return fired
}
