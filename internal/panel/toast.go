package panel

import "time"

// actionToast is the small self-expiring banner shown after copy and create.
// Each show bumps seq so a stale timer cannot hide a newer message.
type actionToast struct {
	message string
	visible bool
	seq     uint64
	timer   *time.Timer
}

func (t *actionToast) stop() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.visible = false
}

func (p *Panel) showActionToast(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.toast.timer != nil {
		p.toast.timer.Stop()
	}
	p.toast.seq++
	seq := p.toast.seq
	p.toast.message = msg
	p.toast.visible = true
	p.toast.timer = time.AfterFunc(p.toastDuration, func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.toast.seq == seq {
			p.toast.visible = false
			p.toast.timer = nil
		}
	})
}
