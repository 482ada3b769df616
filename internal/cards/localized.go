package cards

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// LocalizedText is either a plain string or a language-to-text map. Map
// entries keep their document order, which decides the last fallback.
type LocalizedText struct {
	plain string
	langs []string
	text  map[string]string
}

func Text(s string) LocalizedText { return LocalizedText{plain: s} }

// Translations builds a map value from lang, text pairs.
func Translations(pairs ...string) LocalizedText {
	var t LocalizedText
	for i := 0; i+1 < len(pairs); i += 2 {
		t.set(pairs[i], pairs[i+1])
	}
	return t
}

func (t *LocalizedText) set(lang, s string) {
	if t.text == nil {
		t.text = make(map[string]string)
	}
	if _, ok := t.text[lang]; !ok {
		t.langs = append(t.langs, lang)
	}
	t.text[lang] = s
}

func (t LocalizedText) IsZero() bool {
	return t.plain == "" && len(t.langs) == 0
}

// Resolve picks the text for lang, then English, then the first non-empty
// entry.
func (t LocalizedText) Resolve(lang string) string {
	if t.text == nil {
		return t.plain
	}
	if s := t.text[lang]; s != "" {
		return s
	}
	if s := t.text["en"]; s != "" {
		return s
	}
	for _, l := range t.langs {
		if s := t.text[l]; s != "" {
			return s
		}
	}
	return ""
}

// Values returns every text, for searching.
func (t LocalizedText) Values() []string {
	if t.text == nil {
		if t.plain == "" {
			return nil
		}
		return []string{t.plain}
	}
	out := make([]string, 0, len(t.langs))
	for _, l := range t.langs {
		out = append(out, t.text[l])
	}
	return out
}

func (t LocalizedText) MarshalJSON() ([]byte, error) {
	if t.text == nil {
		return json.Marshal(t.plain)
	}
	var b bytes.Buffer
	b.WriteByte('{')
	for i, l := range t.langs {
		if i > 0 {
			b.WriteByte(',')
		}
		k, _ := json.Marshal(l)
		v, _ := json.Marshal(t.text[l])
		b.Write(k)
		b.WriteByte(':')
		b.Write(v)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

func (t *LocalizedText) UnmarshalJSON(data []byte) error {
	*t = LocalizedText{}
	trimmed := bytes.TrimSpace(data)
	switch {
	case bytes.Equal(trimmed, []byte("null")):
		return nil
	case len(trimmed) > 0 && trimmed[0] == '"':
		return json.Unmarshal(trimmed, &t.plain)
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("localized text: expected string or object, got %v", tok)
	}
	t.text = map[string]string{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		lang, _ := tok.(string)
		var v any
		if err := dec.Decode(&v); err != nil {
			return err
		}
		s, ok := v.(string)
		if !ok {
			continue
		}
		t.set(strings.TrimSpace(lang), s)
	}
	_, err = dec.Token()
	return err
}
