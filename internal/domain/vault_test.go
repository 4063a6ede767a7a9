package domain

import (
	"testing"
	"time"
)

func TestAccessCan(t *testing.T) {
	member := &Access{Caps: DefaultPermission("p1", "v1", time.Now()).Caps}
	owner := &Access{IsOwner: true}

	tests := []struct {
		capability Capability
		member     bool
	}{
		{CapabilityView, true},
		{CapabilityEditCoin, true},
		{CapabilityEditItems, true},
		{CapabilitySplit, false},
		{CapabilityTransfer, false},
		{CapabilityInvite, false},
		{CapabilityManage, false},
	}

	for _, tt := range tests {
		if got := member.Can(tt.capability); got != tt.member {
			t.Errorf("member.Can(%s) = %v, want %v", tt.capability, got, tt.member)
		}
		if !owner.Can(tt.capability) {
			t.Errorf("owner.Can(%s) = false", tt.capability)
		}
	}

	var none *Access
	if none.Can(CapabilityView) {
		t.Error("nil access must not allow anything")
	}
	if FullCapabilities.Allows("unknown") {
		t.Error("unknown capability must be denied")
	}
}

func TestMergeSplitModeIsValid(t *testing.T) {
	if !MergeSplitBase.IsValid() || !MergeSplitPerCurrency.IsValid() {
		t.Error("known modes must be valid")
	}
	if MergeSplitMode("both").IsValid() {
		t.Error("unknown mode must be invalid")
	}
}
