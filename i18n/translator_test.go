package i18n

import "testing"

func TestTranslator_DefaultAndJapanese(t *testing.T) {
	// default is en
	if msg := T("required", nil); msg == "" || msg == "必須項目です" {
		t.Fatalf("expected an english message, got %q", msg)
	}

	SetLanguage("ja")
	if msg := T("required", nil); msg == "required" {
		t.Fatalf("expected japanese message, got %q", msg)
	}

	// reset to en
	SetLanguage("en")

	// unknown codes fall through to the code itself
	if msg := T("no_such_code", nil); msg != "no_such_code" {
		t.Fatalf("expected passthrough for unknown code, got %q", msg)
	}
}
