package adapters

import (
	"context"
	"errors"
	"testing"

	"github.com/pysugar/task-nexus/internal/unified"
)

type nopAdapter struct{ Adapter }

func TestRegistry_NewDispatchesToFactory(t *testing.T) {
	reg := NewRegistry()
	var gotToken string
	reg.Register(unified.ServiceTodoist, func(_ context.Context, apiToken string) (Adapter, error) {
		gotToken = apiToken
		return nopAdapter{}, nil
	})

	a, err := reg.New(context.Background(), unified.ServiceTodoist, "tok-1")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if a == nil {
		t.Fatal("expected adapter")
	}
	if gotToken != "tok-1" {
		t.Fatalf("factory token = %q", gotToken)
	}
}

func TestRegistry_UnknownService(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.New(context.Background(), unified.ServiceBitrix24, "tok")
	var unsupported *unified.UnsupportedServiceError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedServiceError, got %v", err)
	}
	if unsupported.Service != "bitrix24" {
		t.Fatalf("unexpected service in error: %q", unsupported.Service)
	}
}

func TestRegistry_ServicesSorted(t *testing.T) {
	reg := NewRegistry()
	nop := func(context.Context, string) (Adapter, error) { return nopAdapter{}, nil }
	reg.Register(unified.ServiceTodoist, nop)
	reg.Register(unified.ServiceGoogleTasks, nop)

	got := reg.Services()
	if len(got) != 2 || got[0] != unified.ServiceGoogleTasks || got[1] != unified.ServiceTodoist {
		t.Fatalf("Services() = %v", got)
	}
}
