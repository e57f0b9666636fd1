package content

const defaultVolume = 0.9

// VideoPlayer models the transport state of the active video: play/pause,
// volume and mute, fullscreen and the clamped playhead.
type VideoPlayer struct {
	Playing    bool
	Muted      bool
	Fullscreen bool
	Volume     float64
	Current    float64
	Duration   float64
}

// NewVideoPlayer returns a paused player at the default volume. Duration is
// unknown until media metadata loads.
func NewVideoPlayer() *VideoPlayer {
	return &VideoPlayer{Volume: defaultVolume}
}

// SetDuration records the media duration reported once metadata loads.
func (p *VideoPlayer) SetDuration(seconds float64) {
	if seconds < 0 {
		seconds = 0
	}
	p.Duration = seconds
}

// TogglePlay flips between playing and paused.
func (p *VideoPlayer) TogglePlay() { p.Playing = !p.Playing }

// ToggleMute flips the mute flag without touching the stored volume.
func (p *VideoPlayer) ToggleMute() { p.Muted = !p.Muted }

// ToggleFullscreen flips the fullscreen flag.
func (p *VideoPlayer) ToggleFullscreen() { p.Fullscreen = !p.Fullscreen }

// SetVolume clamps to [0,1]; zero implies mute and any nonzero volume
// un-mutes.
func (p *VideoPlayer) SetVolume(volume float64) {
	if volume < 0 {
		volume = 0
	}
	if volume > 1 {
		volume = 1
	}
	p.Volume = volume
	p.Muted = volume == 0
}

// Seek moves the playhead, clamped to [0, duration].
func (p *VideoPlayer) Seek(seconds float64) {
	if seconds < 0 {
		seconds = 0
	}
	if p.Duration > 0 && seconds > p.Duration {
		seconds = p.Duration
	}
	p.Current = seconds
}

// Rewind10 seeks ten seconds back, clamped at zero.
func (p *VideoPlayer) Rewind10() { p.Seek(p.Current - 10) }

// Ended marks playback finished.
func (p *VideoPlayer) Ended() { p.Playing = false }

// DocumentView tracks the page position of the active document lesson. The
// upper bound is unknown without a rendering library, so only the lower
// bound is enforced.
type DocumentView struct {
	Page int
}

// NewDocumentView opens the document at page one.
func NewDocumentView() *DocumentView { return &DocumentView{Page: 1} }

// NextPage advances one page.
func (d *DocumentView) NextPage() { d.Page++ }

// PrevPage steps back one page, never below one.
func (d *DocumentView) PrevPage() {
	if d.Page > 1 {
		d.Page--
	}
}
