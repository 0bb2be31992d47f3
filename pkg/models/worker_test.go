package models

import "testing"

func TestSpecialtyKind_Valid(t *testing.T) {
	tests := []struct {
		kind SpecialtyKind
		want bool
	}{
		{SpecialtyGeneral, true},
		{SpecialtyFileEditing, true},
		{SpecialtyResearch, true},
		{SpecialtyReactComponent, true},
		{SpecialtyCompilationErrors, true},
		{SpecialtyRefactoring, true},
		{SpecialtyKind("devops"), false},
		{SpecialtyKind(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			if got := tt.kind.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSpecialtyConstructors(t *testing.T) {
	s := CompilationErrorsSpecialty("E0308", "E0599")
	if s.Kind != SpecialtyCompilationErrors {
		t.Errorf("Kind = %q, want %q", s.Kind, SpecialtyCompilationErrors)
	}
	if len(s.ErrorCodes) != 2 {
		t.Errorf("ErrorCodes length = %d, want 2", len(s.ErrorCodes))
	}

	r := RefactoringSpecialty("extract-method")
	if r.Kind != SpecialtyRefactoring {
		t.Errorf("Kind = %q, want %q", r.Kind, SpecialtyRefactoring)
	}
	if len(r.Strategies) != 1 {
		t.Errorf("Strategies length = %d, want 1", len(r.Strategies))
	}

	g := GeneralSpecialty()
	if g.Kind != SpecialtyGeneral {
		t.Errorf("Kind = %q, want %q", g.Kind, SpecialtyGeneral)
	}
}

func TestHealthStatus_Unavailable(t *testing.T) {
	tests := []struct {
		status HealthStatus
		want   bool
	}{
		{HealthHealthy, false},
		{HealthDegraded, false},
		{HealthUnhealthy, true},
		{HealthOffline, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.Unavailable(); got != tt.want {
				t.Errorf("Unavailable() = %v, want %v", got, tt.want)
			}
		})
	}
}
