package engine

import (
	"errors"
	"testing"

	"card-battle-system/models"
)

func TestValidateAssignmentAcceptsAllPermutations(t *testing.T) {
	dealt := []string{"a", "b", "c"}
	perms := []models.SlotAssignment{
		{Power: "a", Torque: "b", Speed: "c"},
		{Power: "a", Torque: "c", Speed: "b"},
		{Power: "b", Torque: "a", Speed: "c"},
		{Power: "b", Torque: "c", Speed: "a"},
		{Power: "c", Torque: "a", Speed: "b"},
		{Power: "c", Torque: "b", Speed: "a"},
	}
	for _, p := range perms {
		if err := ValidateAssignment(dealt, p); err != nil {
			t.Errorf("permutation %+v rejected: %v", p, err)
		}
	}
}

func TestValidateAssignmentRejections(t *testing.T) {
	dealt := []string{"a", "b", "c"}
	tests := []struct {
		name       string
		assignment models.SlotAssignment
	}{
		{"same card in two slots", models.SlotAssignment{Power: "a", Torque: "a", Speed: "b"}},
		{"same card in all slots", models.SlotAssignment{Power: "c", Torque: "c", Speed: "c"}},
		{"missing power slot", models.SlotAssignment{Torque: "b", Speed: "c"}},
		{"missing speed slot", models.SlotAssignment{Power: "a", Torque: "b"}},
		{"card outside dealt hand", models.SlotAssignment{Power: "a", Torque: "b", Speed: "z"}},
		{"empty assignment", models.SlotAssignment{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAssignment(dealt, tt.assignment)
			if !errors.Is(err, models.ErrInvalidAssignment) {
				t.Fatalf("expected ErrInvalidAssignment, got %v", err)
			}
		})
	}
}
