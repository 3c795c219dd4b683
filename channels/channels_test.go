package channels

import (
	"testing"

	"github.com/derwentx/mwalib/gpubox"
)

func TestBuildV2ContiguousLowChannels(t *testing.T) {
	scheduled := []int{109, 110, 111, 112}
	present := []int{109, 110, 111, 112}

	out, err := Build(scheduled, gpubox.V2, present)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(out) != 4 {
		t.Fatalf("len(out) = %d, want 4", len(out))
	}
	for i, ch := range out {
		if ch.CorrelatorIndex != i {
			t.Errorf("out[%d].CorrelatorIndex = %d, want %d", i, ch.CorrelatorIndex, i)
		}
	}
	for i := 1; i < len(out); i++ {
		if out[i].CentreHz <= out[i-1].CentreHz {
			t.Errorf("channels not ascending by centre frequency: %+v", out)
		}
	}
}

func TestEffectiveCorrelatorOrderSplitsAtReceiver128(t *testing.T) {
	// Receivers above 128 are assigned in descending order by the digital
	// receiver; below 128 stays ascending.
	scheduled := []int{100, 101, 200, 201}
	order := effectiveCorrelatorOrder(scheduled)
	want := []int{100, 101, 201, 200}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %d, want %d", i, order[i], want[i])
		}
	}
}

func TestBuildLegacyMapsGpuboxSlotsThroughCorrelatorOrder(t *testing.T) {
	scheduled := []int{100, 101, 200, 201}
	present := []int{1, 2, 3, 4}

	out, err := Build(scheduled, gpubox.Legacy, present)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(out) != 4 {
		t.Fatalf("len(out) = %d, want 4", len(out))
	}
	// gpubox slot 3 maps to effective order index 2 -> receiver 201.
	var gotReceiverForSlot3 int
	for _, ch := range out {
		if ch.GpuboxNumber == 3 {
			gotReceiverForSlot3 = ch.ReceiverChannelNumber
		}
	}
	if gotReceiverForSlot3 != 201 {
		t.Errorf("receiver for gpubox slot 3 = %d, want 201", gotReceiverForSlot3)
	}
}

func TestBuildLegacyRejectsOutOfRangeGpuboxNumber(t *testing.T) {
	scheduled := []int{100, 101}
	present := []int{1, 5} // 5 is out of range of a 2-entry scheduled list

	if _, err := Build(scheduled, gpubox.Legacy, present); err == nil {
		t.Fatal("expected InconsistentBatches error for out-of-range gpubox number")
	}
}

func TestNewChannelWidthAndBounds(t *testing.T) {
	ch := newChannel(1, 110)
	if ch.WidthHz != 1_280_000 {
		t.Errorf("WidthHz = %d, want 1280000", ch.WidthHz)
	}
	if ch.EndHz-ch.StartHz != ch.WidthHz {
		t.Errorf("EndHz-StartHz = %d, want %d", ch.EndHz-ch.StartHz, ch.WidthHz)
	}
	if ch.CentreHz != 110*1_280_000 {
		t.Errorf("CentreHz = %d, want %d", ch.CentreHz, 110*int64(1_280_000))
	}
}
