package services_test

import (
	"context"
	"testing"

	"cratekit/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRunID(ctx, "run-123")
	ctx = services.WithTool(ctx, "duplicates")

	if id, ok := services.RunIDFromContext(ctx); !ok || id != "run-123" {
		t.Fatalf("unexpected run id: %v %v", id, ok)
	}
	if tool, ok := services.ToolFromContext(ctx); !ok || tool != "duplicates" {
		t.Fatalf("unexpected tool: %v %v", tool, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithTool(ctx, "")
	ctx = services.WithRunID(ctx, "")
	if _, ok := services.ToolFromContext(ctx); ok {
		t.Fatal("expected no tool value")
	}
	if _, ok := services.RunIDFromContext(ctx); ok {
		t.Fatal("expected no run id value")
	}
}
