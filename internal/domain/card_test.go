package domain

import (
	"testing"
)

func TestNewCard(t *testing.T) {
	t.Parallel() // Enable parallel execution
	stage, err := StageByID("sol")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	card, err := NewCard(stage, 14)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if card.UID != "sol-14" {
		t.Errorf("Expected UID %q, got %q", "sol-14", card.UID)
	}

	if card.StageID() != "sol" {
		t.Errorf("Expected stage ID %q, got %q", "sol", card.StageID())
	}

	// Test missing stage
	_, err = NewCard(Stage{}, 0)
	if err != ErrCardStageEmpty {
		t.Errorf("Expected error %v, got %v", ErrCardStageEmpty, err)
	}
}

func TestCardValidate(t *testing.T) {
	t.Parallel() // Enable parallel execution
	validCard := Card{UID: "agua-12", Stage: Stage{ID: "agua"}}
	if err := validCard.Validate(); err != nil {
		t.Errorf("Expected valid card, got error: %v", err)
	}

	noUID := validCard
	noUID.UID = ""
	if err := noUID.Validate(); err != ErrCardUIDEmpty {
		t.Errorf("Expected error %v, got %v", ErrCardUIDEmpty, err)
	}
}

func TestPairs(t *testing.T) {
	t.Parallel() // Enable parallel execution
	sol, _ := StageByID("sol")
	agua, _ := StageByID("agua")

	a, _ := NewCard(sol, 14)
	b, _ := NewCard(sol, 15)
	c, _ := NewCard(agua, 12)

	if !Pairs(a, b) {
		t.Error("Expected the two sol cards to pair")
	}

	if Pairs(a, a) {
		t.Error("Expected a card never to pair with itself")
	}

	if Pairs(a, c) {
		t.Error("Expected sol and agua not to pair")
	}

	if !SameCard(a, a) || SameCard(a, b) {
		t.Error("Expected SameCard to compare instance IDs")
	}
}
