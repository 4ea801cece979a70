package i18n

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "min" or "expected").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "required":
			return "必須項目です"
		case "too_small":
			return "小さすぎます"
		case "too_big":
			return "大きすぎます"
		case "too_short":
			return "短すぎます"
		case "too_long":
			return "長すぎます"
		case "pattern":
			return "形式が不正です"
		case "invalid_enum":
			return "許可されていない値です"
		case "validation_failed":
			return "検証に失敗しました"
		}
	default: // "en"
		switch code {
		case "required":
			return "required"
		case "too_small":
			return "too small"
		case "too_big":
			return "too big"
		case "too_short":
			return "too short"
		case "too_long":
			return "too long"
		case "pattern":
			return "invalid format"
		case "invalid_enum":
			return "value not allowed"
		case "validation_failed":
			return "validation failed"
		}
	}
	return code
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
