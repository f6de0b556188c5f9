package fees

import "testing"

func mustSchedule(t *testing.T) *Schedule {
	t.Helper()
	s, err := NewSchedule("cantonlink", 10, 15, 25)
	if err != nil {
		t.Fatalf("NewSchedule: %v", err)
	}
	return s
}

func TestBreakdown(t *testing.T) {
	s := mustSchedule(t)

	tests := []struct {
		name       string
		amount     string
		class      Class
		wantBps    uint16
		wantAmount string
	}{
		{name: "swap 10bps on 1e18", amount: "1000000000000000000", class: ClassSwap, wantBps: 10, wantAmount: "1000000000000000"},
		{name: "bridge 15bps", amount: "1000000", class: ClassBridge, wantBps: 15, wantAmount: "1500"},
		{name: "otc 25bps", amount: "1000000", class: ClassOTC, wantBps: 25, wantAmount: "2500"},
		{name: "truncates toward zero", amount: "999", class: ClassSwap, wantBps: 10, wantAmount: "0"},
		{name: "huge amount", amount: "115792089237316195423570985008687907853269984665640564039457", class: ClassSwap, wantBps: 10, wantAmount: "115792089237316195423570985008687907853269984665640564039"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fee, err := s.Breakdown(tt.amount, tt.class)
			if err != nil {
				t.Fatalf("Breakdown: %v", err)
			}
			if fee.FeeBps != tt.wantBps {
				t.Errorf("FeeBps = %d, want %d", fee.FeeBps, tt.wantBps)
			}
			if fee.Amount != tt.wantAmount {
				t.Errorf("Amount = %s, want %s", fee.Amount, tt.wantAmount)
			}
			if fee.Name != "cantonlink" {
				t.Errorf("Name = %s", fee.Name)
			}
		})
	}
}

func TestBreakdownRejectsBadAmount(t *testing.T) {
	s := mustSchedule(t)
	for _, amount := range []string{"", "abc", "1.5", "-3"} {
		if _, err := s.Breakdown(amount, ClassSwap); err == nil {
			t.Errorf("Breakdown(%q) expected error", amount)
		}
	}
}

func TestAfterFee(t *testing.T) {
	s := mustSchedule(t)
	got, err := s.AfterFee("1000000", ClassBridge)
	if err != nil {
		t.Fatalf("AfterFee: %v", err)
	}
	if got != "998500" {
		t.Errorf("AfterFee = %s, want 998500", got)
	}
}

func TestNewScheduleRejectsOutOfRange(t *testing.T) {
	if _, err := NewSchedule("x", 10000, 15, 25); err == nil {
		t.Error("expected rate validation error")
	}
}
