package assistant

// Localized apology shown when every provider fails. This is the only
// failure mode a user can observe from the pipeline.
var fallbackMessages = map[string]string{
	"en": "Sorry, there was an error. Please try again.",
	"hi": "क्षमा करें, एक त्रुटि हुई। कृपया पुनः प्रयास करें।",
	"bn": "দুঃখিত, একটি ত্রুটি ঘটেছে। অনুগ্রহ করে আবার চেষ্টা করুন।",
}

func fallbackMessage(language string) string {
	if msg, ok := fallbackMessages[language]; ok {
		return msg
	}
	return fallbackMessages["en"]
}
