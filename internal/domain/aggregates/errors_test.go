package aggregates

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorString(t *testing.T) {
	cases := map[string]*Error{
		"Recipes.Recipe.Update: 循環参照が検出されました (validation)": {Code: CodeValidation, Op: "Recipes.Recipe.Update", Message: "循環参照が検出されました"},
		"Recipes.Recipe.Delete (not_found)":                {Code: CodeNotFound, Op: "Recipes.Recipe.Delete"},
		"retry later (retryable)":                          {Code: CodeRetryable, Message: "retry later"},
		"internal":                                         {Code: CodeInternal},
	}
	for want, e := range cases {
		if got := e.Error(); got != want {
			t.Fatalf("Error(): want=%q got=%q", want, got)
		}
	}
}

func TestHelpersSeeThroughWrapping(t *testing.T) {
	cause := errors.New("pq: deadlock detected")
	err := fmt.Errorf("save recipe: %w", NewError(CodeRetryable, "op", " busy ", cause))
	if !IsCode(err, CodeRetryable) || CodeOf(err) != CodeRetryable {
		t.Fatalf("code: got=%q", CodeOf(err))
	}
	if got := MessageOf(err); got != "busy" {
		t.Fatalf("message: want=busy got=%q", got)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("cause lost")
	}
	if CodeOf(cause) != "" || MessageOf(cause) != "" || IsCode(cause, CodeInternal) {
		t.Fatalf("foreign error should carry no code")
	}
	if Wrap(CodeInternal, "op", nil) != nil {
		t.Fatalf("Wrap(nil): want nil")
	}
}
