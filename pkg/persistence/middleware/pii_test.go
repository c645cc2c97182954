package middleware_test

import (
	"context"
	"testing"

	"github.com/avelar0/kinmap/pkg/domain"
	"github.com/avelar0/kinmap/pkg/persistence/middleware"
)

func TestPIIMiddleware_Masking(t *testing.T) {
	underlyingStore := NewMockStore()
	// Mask payload keys containing "nhs" or "ssn".
	mw := middleware.NewPIIMiddleware([]string{"nhs", "ssn"})
	secureStore := mw(underlyingStore)

	ctx := context.Background()
	doc := domain.NewDocument()
	doc.People = append(doc.People, domain.Person{
		ID:   "p_a",
		Name: "Ana",
		Payload: map[string]any{
			"ssn":      "123-45-6789",
			"nickname": "Aninha",
			"contact": map[string]any{
				"nhs_number": "999 999 9999",
			},
		},
	})

	if err := secureStore.Save(ctx, "case-1", doc); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	stored, err := underlyingStore.Load(ctx, "case-1")
	if err != nil {
		t.Fatalf("Underlying load failed: %v", err)
	}

	payload := stored.People[0].Payload
	if payload["ssn"] != "***" {
		t.Errorf("Expected ssn masked, got %v", payload["ssn"])
	}
	if payload["nickname"] != "Aninha" {
		t.Errorf("Expected nickname untouched, got %v", payload["nickname"])
	}
	contact := payload["contact"].(map[string]any)
	if contact["nhs_number"] != "***" {
		t.Errorf("Expected nested nhs_number masked, got %v", contact["nhs_number"])
	}

	// The document handed to Save keeps its plaintext.
	if doc.People[0].Payload["ssn"] != "123-45-6789" {
		t.Error("Save mutated the caller's document")
	}
}
