package vulka

import (
	"testing"

	"github.com/cockroachdb/errors"
)

type scriptedFrameDriver struct {
	steps []string

	staleAcquire bool
	stalePresent bool
	acquireErr   error
	submitErr    error
}

func (d *scriptedFrameDriver) Throttle() error {
	d.steps = append(d.steps, "throttle")
	return nil
}

func (d *scriptedFrameDriver) Acquire() (uint32, bool, error) {
	d.steps = append(d.steps, "acquire")
	return 3, d.staleAcquire, d.acquireErr
}

func (d *scriptedFrameDriver) Reset() error {
	d.steps = append(d.steps, "reset")
	return nil
}

func (d *scriptedFrameDriver) Record(imageIndex uint32) error {
	if imageIndex != 3 {
		return errors.Newf("recorded against image %d, acquired 3", imageIndex)
	}
	d.steps = append(d.steps, "record")
	return nil
}

func (d *scriptedFrameDriver) Submit() error {
	d.steps = append(d.steps, "submit")
	return d.submitErr
}

func (d *scriptedFrameDriver) Present(imageIndex uint32) (bool, error) {
	d.steps = append(d.steps, "present")
	return d.stalePresent, nil
}

func assertSteps(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("steps %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("steps %v, want %v", got, want)
		}
	}
}

func TestFrameCycle(t *testing.T) {
	d := &scriptedFrameDriver{}

	ok, err := runFrameCycle(d)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("healthy cycle reported stale")
	}
	assertSteps(t, d.steps, []string{"throttle", "acquire", "reset", "record", "submit", "present"})
}

func TestFrameCycleStaleAcquireStopsBeforeReset(t *testing.T) {
	d := &scriptedFrameDriver{staleAcquire: true}

	ok, err := runFrameCycle(d)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("stale acquire reported ok")
	}
	// The fence must stay signaled when acquire goes stale, so Reset must
	// never run.
	assertSteps(t, d.steps, []string{"throttle", "acquire"})
}

func TestFrameCycleStalePresent(t *testing.T) {
	d := &scriptedFrameDriver{stalePresent: true}

	ok, err := runFrameCycle(d)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("stale present reported ok")
	}
	assertSteps(t, d.steps, []string{"throttle", "acquire", "reset", "record", "submit", "present"})
}

func TestFrameCycleSubmitErrorSkipsPresent(t *testing.T) {
	boom := errors.New("boom")
	d := &scriptedFrameDriver{submitErr: boom}

	_, err := runFrameCycle(d)
	if !errors.Is(err, boom) {
		t.Fatalf("got %v, want submit error", err)
	}
	assertSteps(t, d.steps, []string{"throttle", "acquire", "reset", "record", "submit"})
}

func TestFrameCycleAcquireError(t *testing.T) {
	boom := errors.New("device lost")
	d := &scriptedFrameDriver{acquireErr: boom}

	_, err := runFrameCycle(d)
	if !errors.Is(err, boom) {
		t.Fatalf("got %v, want acquire error", err)
	}
	assertSteps(t, d.steps, []string{"throttle", "acquire"})
}

// simSlot models one frame slot's fence.
type simSlot struct {
	index    int
	signaled bool
}

// simDriver models a GPU that retires submissions in order, but only when the
// host blocks on a fence. It fails the test if a slot is reused while its
// fence is unsignaled without waiting.
type simDriver struct {
	t          *testing.T
	slot       *simSlot
	pending    *[]*simSlot
	maxPending *int
}

func (d *simDriver) Throttle() error {
	for !d.slot.signaled {
		if len(*d.pending) == 0 {
			d.t.Fatalf("slot %d fence can never signal", d.slot.index)
		}
		head := (*d.pending)[0]
		*d.pending = (*d.pending)[1:]
		head.signaled = true
	}
	return nil
}

func (d *simDriver) Acquire() (uint32, bool, error) { return uint32(d.slot.index), false, nil }

func (d *simDriver) Reset() error {
	if !d.slot.signaled {
		d.t.Fatalf("slot %d fence reset while unsignaled", d.slot.index)
	}
	d.slot.signaled = false
	return nil
}

func (d *simDriver) Record(imageIndex uint32) error { return nil }

func (d *simDriver) Submit() error {
	*d.pending = append(*d.pending, d.slot)
	if len(*d.pending) > *d.maxPending {
		*d.maxPending = len(*d.pending)
	}
	return nil
}

func (d *simDriver) Present(imageIndex uint32) (bool, error) { return false, nil }

func TestFrameCycleRoundRobinBoundsFramesInFlight(t *testing.T) {
	const framesInFlight = 3

	slots := make([]*simSlot, framesInFlight)
	for i := range slots {
		// Fences start signaled, like CreateSignaledFence.
		slots[i] = &simSlot{index: i, signaled: true}
	}

	var pending []*simSlot
	maxPending := 0

	for frame := 0; frame < 20; frame++ {
		slot := slots[frame%framesInFlight]
		ok, err := runFrameCycle(&simDriver{t: t, slot: slot, pending: &pending, maxPending: &maxPending})
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			t.Fatal("simulated cycle reported stale")
		}
	}

	if maxPending > framesInFlight {
		t.Errorf("%d frames in flight, limit %d", maxPending, framesInFlight)
	}
}
