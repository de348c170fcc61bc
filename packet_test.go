package dflow

import (
	"testing"
	"time"
)

func TestPacketDataRoundTrip(t *testing.T) {
	p := NewPacket(42)
	if got := p.Data(); got != 42 {
		t.Fatalf("Data() = %d, want 42", got)
	}
	p.SetData(7)
	if got := p.Data(); got != 7 {
		t.Fatalf("Data() after SetData = %d, want 7", got)
	}
}

func TestPacketConsumptionTimeUnsetByDefault(t *testing.T) {
	p := NewPacket("x")
	if !p.ConsumptionTime().IsZero() {
		t.Fatalf("ConsumptionTime() = %v, want zero", p.ConsumptionTime())
	}
	now := time.Now()
	p.SetConsumptionTime(now)
	if !p.ConsumptionTime().Equal(now) {
		t.Fatalf("ConsumptionTime() = %v, want %v", p.ConsumptionTime(), now)
	}
}

func TestPacketSizeIsStablePerType(t *testing.T) {
	a := NewPacket("short")
	b := NewPacket("a string that is much much longer than the first one")
	if a.Size() != b.Size() {
		t.Fatalf("Size() differed by content: %d vs %d, want equal (header-only)", a.Size(), b.Size())
	}
}

func TestPacketCloneIsIndependent(t *testing.T) {
	p := NewPacket(1)
	c := p.Clone()
	c.SetData(2)
	if p.Data() != 1 {
		t.Fatalf("original mutated via clone: Data() = %d, want 1", p.Data())
	}
	if c.Data() != 2 {
		t.Fatalf("Clone().Data() = %d, want 2", c.Data())
	}
}
