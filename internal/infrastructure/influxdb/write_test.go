package influxdb

import "testing"

func TestStateValue(t *testing.T) {
	tests := []struct {
		state  string
		value  float64
		mapped bool
	}{
		{"on", 1, true},
		{"open", 1, true},
		{"locked", 1, true},
		{"off", 0, true},
		{"closed", 0, true},
		{"unlocked", 0, true},
		{"ON", 1, true},
		{"Locked", 1, true},
		{"42.5", 0, false},
		{"unavailable", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		v, ok := stateValue(tt.state)
		if ok != tt.mapped || v != tt.value {
			t.Errorf("stateValue(%q) = (%v, %v), want (%v, %v)", tt.state, v, ok, tt.value, tt.mapped)
		}
	}
}
