package audio

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/jscyril/flowaudio/api"
	"github.com/jscyril/flowaudio/internal/prefs"
	"github.com/jscyril/flowaudio/internal/settings"
	playerrors "github.com/jscyril/flowaudio/pkg/errors"
	"github.com/jscyril/flowaudio/pkg/events"
	"github.com/rs/zerolog"
)

// fakeChannel records every call made by the player
type fakeChannel struct {
	volume   float64
	clip     *api.Clip
	playing  bool
	volumes  []float64
	plays    []*api.Clip
	oneShots []*api.Clip
	stops    int
	playErr  error
}

func (c *fakeChannel) Volume() float64 { return c.volume }

func (c *fakeChannel) SetVolume(v float64) {
	c.volume = v
	c.volumes = append(c.volumes, v)
}

func (c *fakeChannel) Clip() *api.Clip { return c.clip }

func (c *fakeChannel) Play(clip *api.Clip) error {
	if c.playErr != nil {
		return c.playErr
	}
	c.clip = clip
	c.playing = true
	c.plays = append(c.plays, clip)
	return nil
}

func (c *fakeChannel) Stop() {
	c.playing = false
	c.stops++
}

func (c *fakeChannel) PlayOneShot(clip *api.Clip) error {
	c.oneShots = append(c.oneShots, clip)
	return nil
}

type volumeSource struct {
	v float64
}

func (s *volumeSource) MusicVolume() float64 { return s.v }

func testClips(n int) []*api.Clip {
	clips := make([]*api.Clip, n)
	for i := range clips {
		clips[i] = &api.Clip{
			ID:   fmt.Sprintf("clip-%d", i),
			Name: fmt.Sprintf("Track %d", i),
			Path: fmt.Sprintf("music/track%d.mp3", i),
		}
	}
	return clips
}

func newTestPlayer(music *fakeChannel, tracks []*api.Clip, fade time.Duration, vol VolumeSource) (*Player, *fakeChannel) {
	sfx := &fakeChannel{volume: 1}
	p := NewPlayer(music, sfx, tracks, nil, PlayerOptions{
		FadeDuration: fade,
		Volume:       vol,
		Logger:       zerolog.Nop(),
	})
	return p, sfx
}

// finishFade ticks until the fade completes, failing after limit ticks
func finishFade(t *testing.T, p *Player, dt time.Duration, limit int) int {
	t.Helper()
	ticks := 0
	for p.Fading() {
		p.Tick(dt)
		ticks++
		if ticks > limit {
			t.Fatalf("fade did not finish within %d ticks", limit)
		}
	}
	return ticks
}

func TestPlayTrackByIndex_Clamps(t *testing.T) {
	tests := []struct {
		name      string
		index     int
		wantIndex int
	}{
		{"negative", -3, 0},
		{"in range", 2, 2},
		{"past end", 99, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracks := testClips(5)
			p, _ := newTestPlayer(&fakeChannel{volume: 1}, tracks, time.Second, &volumeSource{1})

			p.PlayTrackByIndex(tt.index)

			if p.CurrentIndex() != tt.wantIndex {
				t.Errorf("CurrentIndex = %d, want %d", p.CurrentIndex(), tt.wantIndex)
			}
			state := p.Snapshot()
			if state.FadeTarget == nil || state.FadeTarget.ID != tracks[tt.wantIndex].ID {
				t.Errorf("fade target = %+v, want %s", state.FadeTarget, tracks[tt.wantIndex].ID)
			}
		})
	}
}

func TestPlayTrackByIndex_EmptyTrackList(t *testing.T) {
	p, _ := newTestPlayer(&fakeChannel{volume: 1}, nil, time.Second, nil)

	p.PlayTrackByIndex(0)

	if p.Fading() {
		t.Error("no fade should start without tracks")
	}
}

func TestPlayTrackByIndex_SameClipIsNoop(t *testing.T) {
	tracks := testClips(3)
	music := &fakeChannel{volume: 0.7, clip: tracks[1]}
	p, _ := newTestPlayer(music, tracks, time.Second, &volumeSource{0.7})

	p.PlayTrackByIndex(1)

	if p.Fading() {
		t.Error("requesting the loaded clip should not start a fade")
	}
	if len(music.volumes) != 0 {
		t.Errorf("channel gain touched: %v", music.volumes)
	}
	if p.CurrentIndex() != 1 {
		t.Errorf("CurrentIndex = %d, want 1", p.CurrentIndex())
	}
}

func TestFade_FullCycle(t *testing.T) {
	tracks := testClips(3)
	music := &fakeChannel{volume: 0.8}
	p, _ := newTestPlayer(music, tracks, 1500*time.Millisecond, &volumeSource{0.6})

	p.PlayTrackByIndex(1)
	music.volumes = nil

	ticks := finishFade(t, p, 100*time.Millisecond, 100)
	if ticks != 30 {
		t.Errorf("fade took %d ticks, want 30", ticks)
	}

	swap := -1
	for i, v := range music.volumes {
		if v == 0 {
			swap = i
			break
		}
	}
	if swap < 0 {
		t.Fatalf("gain never reached 0: %v", music.volumes)
	}

	for i := 1; i <= swap; i++ {
		if music.volumes[i] > music.volumes[i-1] {
			t.Errorf("fade-out not monotonic at %d: %v", i, music.volumes[:swap+1])
		}
	}
	for i := swap + 1; i < len(music.volumes); i++ {
		if music.volumes[i] < music.volumes[i-1] {
			t.Errorf("fade-in not monotonic at %d: %v", i, music.volumes[swap:])
		}
	}

	if last := music.volumes[len(music.volumes)-1]; last != 0.6 {
		t.Errorf("final gain = %f, want 0.6", last)
	}
	if len(music.plays) != 1 || music.plays[0] != tracks[1] {
		t.Errorf("plays = %v, want only track 1", music.plays)
	}
	if music.stops != 1 {
		t.Errorf("stops = %d, want 1", music.stops)
	}
	if !api.SameClip(p.CurrentClip(), tracks[1]) {
		t.Errorf("current clip = %v, want track 1", p.CurrentClip())
	}
}

func TestFade_PhaseDurations(t *testing.T) {
	const d = 1500 * time.Millisecond

	for _, dt := range []time.Duration{16 * time.Millisecond, 70 * time.Millisecond, 100 * time.Millisecond, 333 * time.Millisecond} {
		t.Run(dt.String(), func(t *testing.T) {
			music := &fakeChannel{volume: 1}
			p, _ := newTestPlayer(music, testClips(2), d, &volumeSource{1})

			p.PlayTrackByIndex(1)

			out := 0
			for p.Snapshot().Phase == api.FadeOut {
				p.Tick(dt)
				out++
			}
			in := finishFade(t, p, dt, 1000)

			for name, n := range map[string]int{"fade-out": out, "fade-in": in} {
				if time.Duration(n)*dt < d || time.Duration(n-1)*dt >= d {
					t.Errorf("%s took %d ticks of %v, want within one tick of %v", name, n, dt, d)
				}
			}
		})
	}
}

func TestFade_ReplaceBeforeSwap(t *testing.T) {
	tracks := testClips(3)
	music := &fakeChannel{volume: 1}
	p, _ := newTestPlayer(music, tracks, time.Second, &volumeSource{1})

	p.PlayTrackByIndex(1)
	for i := 0; i < 5; i++ {
		p.Tick(100 * time.Millisecond)
	}
	gain := music.volume

	p.PlayTrackByIndex(2)

	if music.volume != gain {
		t.Errorf("gain snapped from %f to %f when replacing the fade", gain, music.volume)
	}
	if target := p.Snapshot().FadeTarget; target == nil || target.ID != tracks[2].ID {
		t.Fatalf("fade target = %+v, want track 2", target)
	}

	finishFade(t, p, 100*time.Millisecond, 100)

	if !api.SameClip(music.clip, tracks[2]) {
		t.Errorf("channel clip = %v, want track 2", music.clip)
	}
	for _, c := range music.plays {
		if c == tracks[1] {
			t.Error("track 1 was swapped in although its fade was replaced")
		}
	}
	if state := p.Snapshot(); state.FadeTarget != nil || state.Phase != api.FadeIdle {
		t.Errorf("fade state left behind: %+v", state)
	}
}

func TestFade_ReplaceDuringFadeIn(t *testing.T) {
	tracks := testClips(3)
	music := &fakeChannel{volume: 1}
	p, _ := newTestPlayer(music, tracks, time.Second, &volumeSource{1})

	p.PlayTrackByIndex(1)
	for i := 0; i < 12; i++ {
		p.Tick(100 * time.Millisecond)
	}
	if !api.SameClip(music.clip, tracks[1]) {
		t.Fatalf("track 1 should be loaded after the fade-out")
	}

	p.PlayTrackByIndex(2)
	finishFade(t, p, 100*time.Millisecond, 100)

	if want := []*api.Clip{tracks[1], tracks[2]}; !reflect.DeepEqual(music.plays, want) {
		t.Errorf("plays = %v, want %v", music.plays, want)
	}
	if music.volume != 1 {
		t.Errorf("final gain = %f, want 1", music.volume)
	}
}

func TestFade_LoadedClipDuringFadeOutKeepsFade(t *testing.T) {
	tracks := testClips(3)
	music := &fakeChannel{volume: 1, clip: tracks[0]}
	p, _ := newTestPlayer(music, tracks, time.Second, &volumeSource{1})

	p.PlayTrackByIndex(1)
	p.Tick(100 * time.Millisecond)
	p.PlayTrackByIndex(0)

	if target := p.Snapshot().FadeTarget; target == nil || target.ID != tracks[1].ID {
		t.Errorf("fade target = %+v, want track 1 to keep fading in", target)
	}
	if p.CurrentIndex() != 0 {
		t.Errorf("CurrentIndex = %d, want 0", p.CurrentIndex())
	}
}

func TestFade_TargetFollowsVolumeSource(t *testing.T) {
	vol := &volumeSource{0.6}
	music := &fakeChannel{volume: 0.6}
	p, _ := newTestPlayer(music, testClips(2), time.Second, vol)

	p.PlayTrackByIndex(1)
	for p.Snapshot().Phase == api.FadeOut {
		p.Tick(100 * time.Millisecond)
	}
	vol.v = 0.2
	finishFade(t, p, 100*time.Millisecond, 100)

	if music.volume != 0.2 {
		t.Errorf("final gain = %f, want 0.2", music.volume)
	}
}

func TestFade_WithoutVolumeSourceUsesLastVolume(t *testing.T) {
	music := &fakeChannel{volume: 1}
	p, _ := newTestPlayer(music, testClips(2), time.Second, nil)

	p.SetMusicVolume(0.35)
	p.PlayTrackByIndex(1)
	finishFade(t, p, 250*time.Millisecond, 100)

	if music.volume != 0.35 {
		t.Errorf("final gain = %f, want 0.35", music.volume)
	}
}

func TestFade_PlayErrorStillCompletes(t *testing.T) {
	music := &fakeChannel{volume: 1, playErr: errors.New("device gone")}
	p, _ := newTestPlayer(music, testClips(2), time.Second, &volumeSource{1})

	p.PlayTrackByIndex(1)
	finishFade(t, p, 100*time.Millisecond, 100)

	if music.clip != nil {
		t.Errorf("clip = %v, want none after failed play", music.clip)
	}
}

func TestTick_NoFade(t *testing.T) {
	music := &fakeChannel{volume: 0.5}
	p, _ := newTestPlayer(music, testClips(2), time.Second, nil)

	p.Tick(time.Second)

	if len(music.volumes) != 0 {
		t.Errorf("Tick without a fade touched the gain: %v", music.volumes)
	}
}

func TestPlaySFX(t *testing.T) {
	click := &api.Clip{ID: "clip-click", Name: "click"}
	other := &api.Clip{ID: "clip-other", Name: "other"}
	entries := []api.SFXEntry{
		{Key: "Click", Clip: click},
		{Key: "Click", Clip: other},
		{Key: "Empty", Clip: nil},
	}

	sfx := &fakeChannel{volume: 1}
	p := NewPlayer(&fakeChannel{volume: 1}, sfx, nil, entries, PlayerOptions{Logger: zerolog.Nop()})

	if err := p.PlaySFX("Click"); err != nil {
		t.Fatalf("PlaySFX(Click): %v", err)
	}
	if err := p.PlaySFX("Click"); err != nil {
		t.Fatalf("PlaySFX(Click) again: %v", err)
	}
	if len(sfx.oneShots) != 2 || sfx.oneShots[0] != click || sfx.oneShots[1] != click {
		t.Errorf("one-shots = %v, want click twice (first entry wins)", sfx.oneShots)
	}

	for _, key := range []string{"Missing", "Empty", ""} {
		err := p.PlaySFX(key)
		if !errors.Is(err, playerrors.ErrSFXNotFound) {
			t.Errorf("PlaySFX(%q) error = %v, want ErrSFXNotFound", key, err)
		}
	}
	if len(sfx.oneShots) != 2 {
		t.Errorf("unknown keys produced playback: %v", sfx.oneShots)
	}
}

func TestPlaySFXClip(t *testing.T) {
	sfx := &fakeChannel{volume: 1}
	p := NewPlayer(&fakeChannel{volume: 1}, sfx, nil, nil, PlayerOptions{Logger: zerolog.Nop()})

	if err := p.PlaySFXClip(nil); err != nil {
		t.Errorf("PlaySFXClip(nil) = %v", err)
	}
	clip := &api.Clip{ID: "clip-hit"}
	p.PlaySFXClip(clip)

	if len(sfx.oneShots) != 1 || sfx.oneShots[0] != clip {
		t.Errorf("one-shots = %v", sfx.oneShots)
	}
}

func TestVolumes(t *testing.T) {
	music := &fakeChannel{volume: 1}
	p, sfx := newTestPlayer(music, testClips(1), time.Second, nil)

	p.SetMusicVolume(0.3)
	p.SetSFXVolume(0.9)

	if music.volume != 0.3 || sfx.volume != 0.9 {
		t.Errorf("music=%f sfx=%f, want 0.3 and 0.9", music.volume, sfx.volume)
	}
}

func TestQueue_EnqueueValidates(t *testing.T) {
	p, _ := newTestPlayer(&fakeChannel{volume: 1}, testClips(5), time.Second, nil)

	for _, i := range []int{-1, 5, 4, 100, 0} {
		p.Enqueue(i)
	}

	if got := p.Queued(); !reflect.DeepEqual(got, []int{4, 0}) {
		t.Errorf("Queued = %v, want [4 0]", got)
	}
}

func TestQueue_DequeueEmpty(t *testing.T) {
	p, _ := newTestPlayer(&fakeChannel{volume: 1}, testClips(3), time.Second, nil)

	p.DequeueAndPlay()

	if p.Fading() {
		t.Error("DequeueAndPlay on an empty queue started a fade")
	}
}

func TestQueue_AllExceptCurrentDrain(t *testing.T) {
	tracks := testClips(5)
	music := &fakeChannel{volume: 1}
	p, _ := newTestPlayer(music, tracks, 200*time.Millisecond, &volumeSource{1})

	p.PlayTrackByIndex(2)
	finishFade(t, p, 50*time.Millisecond, 100)

	p.Enqueue(2)
	p.EnqueueAllExceptCurrent()
	if got := p.Queued(); !reflect.DeepEqual(got, []int{0, 1, 3, 4}) {
		t.Fatalf("Queued = %v, want [0 1 3 4]", got)
	}

	var visited []int
	for p.QueueLen() > 0 {
		p.DequeueAndPlay()
		visited = append(visited, p.CurrentIndex())
		finishFade(t, p, 50*time.Millisecond, 100)
	}

	if want := []int{0, 1, 3, 4}; !reflect.DeepEqual(visited, want) {
		t.Errorf("visited %v, want %v", visited, want)
	}
	if want := []*api.Clip{tracks[2], tracks[0], tracks[1], tracks[3], tracks[4]}; !reflect.DeepEqual(music.plays, want) {
		t.Errorf("plays = %v, want %v", music.plays, want)
	}
}

func TestQueue_Clear(t *testing.T) {
	p, _ := newTestPlayer(&fakeChannel{volume: 1}, testClips(3), time.Second, nil)
	p.EnqueueAllExceptCurrent()
	p.ClearQueue()

	if p.QueueLen() != 0 {
		t.Errorf("QueueLen = %d after ClearQueue", p.QueueLen())
	}
}

func TestBind(t *testing.T) {
	mem := prefs.NewMemory()
	mem.SetFloat(settings.KeyMusicVolume, 0.4)
	mem.SetInt(settings.KeyTrackIndex, 1)

	bus := events.NewBus()
	store := settings.NewStore(mem, bus, zerolog.Nop())

	tracks := testClips(4)
	music := &fakeChannel{volume: 1}
	sfx := &fakeChannel{volume: 1}
	p := NewPlayer(music, sfx, tracks, nil, PlayerOptions{FadeDuration: time.Second, Logger: zerolog.Nop()})

	var got []api.Event
	bus.Subscribe(api.EventFadeStarted, func(e api.Event) { got = append(got, e) })
	bus.Subscribe(api.EventTrackStarted, func(e api.Event) { got = append(got, e) })
	bus.Subscribe(api.EventFadeFinished, func(e api.Event) { got = append(got, e) })

	p.Bind(store, bus)

	if music.volume != 0.4 || sfx.volume != 0.5 {
		t.Errorf("initial sync: music=%f sfx=%f, want 0.4 and 0.5", music.volume, sfx.volume)
	}
	if target := p.Snapshot().FadeTarget; target == nil || target.ID != tracks[1].ID {
		t.Fatalf("initial fade target = %+v, want track 1", target)
	}

	store.SetSFXVolume(0.9)
	if sfx.volume != 0.9 {
		t.Errorf("sfx gain = %f after store change, want 0.9", sfx.volume)
	}

	store.ChangeTrack(1)
	if p.CurrentIndex() != 2 {
		t.Errorf("CurrentIndex = %d after ChangeTrack(1), want 2", p.CurrentIndex())
	}

	store.SetMusicVolume(0.7)
	finishFade(t, p, 100*time.Millisecond, 100)
	if music.volume != 0.7 {
		t.Errorf("final gain = %f, want store volume 0.7", music.volume)
	}

	wantTypes := []api.EventType{api.EventFadeStarted, api.EventFadeStarted, api.EventTrackStarted, api.EventFadeFinished}
	if len(got) != len(wantTypes) {
		t.Fatalf("got %d player events, want %d: %+v", len(got), len(wantTypes), got)
	}
	for i, et := range wantTypes {
		if got[i].Type != et {
			t.Errorf("event %d = %v, want %v", i, got[i].Type, et)
		}
	}
	if clip, ok := got[3].Payload.(*api.Clip); !ok || clip.ID != tracks[2].ID {
		t.Errorf("fade finished payload = %+v, want track 2", got[3].Payload)
	}

	p.Unbind()
	store.SetSFXVolume(0.1)
	if sfx.volume != 0.9 {
		t.Errorf("unbound player still reacts: sfx gain = %f", sfx.volume)
	}
}
