package translate

// NewTestTranslator builds an OpenAITranslator around a mock chat client.
func NewTestTranslator(client chatCompleter, opts ...TranslatorOption) *OpenAITranslator {
	t := NewOpenAITranslator(nil, opts...)
	t.client = client
	return t
}
