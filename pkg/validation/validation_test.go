package validation

import (
	"fmt"
	"testing"
)

func TestErrors_Add_FirstWins(t *testing.T) {
	ve := Errors{}
	ve.Add("snils", "must contain 11 digits")
	ve.Add("snils", "already registered")
	if ve["snils"] != "must contain 11 digits" {
		t.Errorf("expected first message to win, got %q", ve["snils"])
	}
}

func TestErrors_ErrorString(t *testing.T) {
	ve := Errors{"b": "two", "a": "one"}
	want := "validation failed: a: one; b: two"
	if ve.Error() != want {
		t.Errorf("expected %q, got %q", want, ve.Error())
	}
}

func TestAsErrors(t *testing.T) {
	ve := Errors{"login": "taken"}
	wrapped := fmt.Errorf("create employee: %w", ve)
	got, ok := AsErrors(wrapped)
	if !ok {
		t.Fatal("expected to unwrap Errors")
	}
	if got["login"] != "taken" {
		t.Errorf("unexpected unwrapped value: %v", got)
	}

	if _, ok := AsErrors(fmt.Errorf("plain")); ok {
		t.Error("plain error should not unwrap to Errors")
	}
}
