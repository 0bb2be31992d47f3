package models

import "testing"

func TestPriority_Valid(t *testing.T) {
	tests := []struct {
		priority Priority
		want     bool
	}{
		{PriorityLow, true},
		{PriorityNormal, true},
		{PriorityHigh, true},
		{PriorityCritical, true},
		{Priority("urgent"), false},
		{Priority(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.priority), func(t *testing.T) {
			if got := tt.priority.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPriority_ComplexityWeight(t *testing.T) {
	tests := []struct {
		priority Priority
		want     float64
	}{
		{PriorityLow, 0},
		{PriorityNormal, 5},
		{PriorityHigh, 10},
		{PriorityCritical, 15},
	}

	for _, tt := range tests {
		t.Run(string(tt.priority), func(t *testing.T) {
			if got := tt.priority.ComplexityWeight(); got != tt.want {
				t.Errorf("ComplexityWeight() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPriority_AdmissionValue(t *testing.T) {
	// Only high and critical priorities clear the 0.7 backpressure bar.
	if PriorityLow.AdmissionValue() > 0.7 {
		t.Error("low priority should not clear the backpressure threshold")
	}
	if PriorityNormal.AdmissionValue() > 0.7 {
		t.Error("normal priority should not clear the backpressure threshold")
	}
	if PriorityHigh.AdmissionValue() <= 0.7 {
		t.Error("high priority should clear the backpressure threshold")
	}
	if PriorityCritical.AdmissionValue() <= 0.7 {
		t.Error("critical priority should clear the backpressure threshold")
	}
}

func TestTaskCategory_Valid(t *testing.T) {
	for _, c := range []TaskCategory{
		CategoryReactComponent, CategoryFileEditing, CategoryResearch, CategoryCodeGeneration,
	} {
		if !c.Valid() {
			t.Errorf("category %q should be valid", c)
		}
	}
	if TaskCategory("frontend").Valid() {
		t.Error("unknown category should not be valid")
	}
}
