// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"context"
	"testing"
)

func TestContextKeyString(t *testing.T) {
	key := contextKey("testKey")
	if key.String() != "testKey" {
		t.Errorf("expected 'testKey', got '%s'", key.String())
	}
}

func TestPassIDCtxKey(t *testing.T) {
	if PassIDCtxKey.String() != "passID" {
		t.Errorf("expected 'passID', got '%s'", PassIDCtxKey.String())
	}
}

func TestGetPassIDFromContext_Success(t *testing.T) {
	ctx := WithPassID(context.Background(), "0190a6c4-pass")

	passID, ok := GetPassIDFromContext(ctx)

	if !ok {
		t.Fatal("expected ok=true, got false")
	}
	if passID != "0190a6c4-pass" {
		t.Errorf("expected passID=0190a6c4-pass, got %s", passID)
	}
}

func TestGetPassIDFromContext_Missing(t *testing.T) {
	passID, ok := GetPassIDFromContext(context.Background())

	if ok {
		t.Fatal("expected ok=false, got true")
	}
	if passID != "" {
		t.Errorf("expected empty passID, got %s", passID)
	}
}

func TestGetPassIDFromContext_WrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), PassIDCtxKey, 42)

	if _, ok := GetPassIDFromContext(ctx); ok {
		t.Fatal("expected ok=false for non-string value")
	}
}

func TestGetPassIDFromContext_Empty(t *testing.T) {
	ctx := WithPassID(context.Background(), "")

	if _, ok := GetPassIDFromContext(ctx); ok {
		t.Fatal("expected ok=false for empty pass id")
	}
}

func TestUUIDGenerator_Generate(t *testing.T) {
	g := NewUUIDGenerator()

	a, b := g.Generate(), g.Generate()
	if len(a) != 36 {
		t.Fatalf("expected 36-char uuid, got %q", a)
	}
	if a == b {
		t.Fatal("expected distinct ids")
	}
	// version nibble of a v7 uuid
	if a[14] != '7' {
		t.Errorf("expected version 7 uuid, got %q", a)
	}
}
