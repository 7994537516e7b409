package analysis

import (
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// IsJSON reports whether body is a single valid JSON document.
func IsJSON(body []byte) bool {
	return gjson.ValidBytes(body)
}

// PrettyJSON indents a valid JSON body for the debug panel.
func PrettyJSON(body []byte) string {
	return string(pretty.PrettyOptions(body, &pretty.Options{
		Width:  80,
		Indent: "  ",
	}))
}

// Normalize resolves a JSON response body into an Envelope.
//
// The candidate is the value under "output" when the body is an object that
// has that key, otherwise the body itself. A string candidate is parsed once
// more as JSON. An object candidate yields its fields; anything else yields
// an empty result.
func Normalize(body []byte) Envelope {
	root := gjson.ParseBytes(body)

	candidate := root
	source := SourceRoot
	if root.IsObject() {
		if out := field(root, "output"); out.Exists() {
			candidate = out
			source = SourceOutput
		}
	}

	kind := EnvelopeObject
	if candidate.Type == gjson.String {
		text := candidate.Str
		if !gjson.Valid(text) {
			return Envelope{Kind: EnvelopeUnparseable, Source: source, Text: text}
		}
		candidate = gjson.Parse(text)
		kind = EnvelopeJSONString
	}

	if !candidate.IsObject() {
		return Envelope{Kind: EnvelopeUnparseable, Source: source, Text: candidate.Raw}
	}

	return Envelope{
		Kind:   kind,
		Source: source,
		Result: decodeResult(candidate),
	}
}

func decodeResult(obj gjson.Result) AnalysisResult {
	return AnalysisResult{
		Sentiment:   optionalText(field(obj, "sentiment")),
		Summary:     optionalText(field(obj, "summary")),
		Topics:      listField(field(obj, "topics")),
		KeyInsights: listField(field(obj, "keyInsights")),
	}
}

// field looks up key in obj. When a key repeats, the last occurrence wins,
// as with a map decode; gjson's Get would return the first.
func field(obj gjson.Result, key string) gjson.Result {
	var found gjson.Result
	obj.ForEach(func(k, v gjson.Result) bool {
		if k.Str == key {
			found = v
		}
		return true
	})
	return found
}

// null counts as absent
func optionalText(v gjson.Result) *string {
	if !v.Exists() || v.Type == gjson.Null {
		return nil
	}
	s := text(v)
	return &s
}

func listField(v gjson.Result) ListField {
	if !v.Exists() || v.Type == gjson.Null {
		return ListField{}
	}
	if !v.IsArray() {
		return ListField{Blob: text(v), IsBlob: true}
	}

	items := []string{}
	v.ForEach(func(_, item gjson.Result) bool {
		items = append(items, text(item))
		return true
	})
	return ListField{Items: items, IsList: true}
}

// text returns strings unquoted and every other value as its JSON source.
func text(v gjson.Result) string {
	if v.Type == gjson.String {
		return v.Str
	}
	return v.Raw
}
