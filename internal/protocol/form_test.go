package protocol

import "testing"

func TestParseForm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want Form
	}{
		{name: "empty input", raw: "", want: Form{}},
		{name: "two pairs", raw: "a=1&b=2", want: Form{"a": "1", "b": "2"}},
		{name: "drops pair without separator", raw: "a=1&bad&b=2", want: Form{"a": "1", "b": "2"}},
		{name: "splits on first equals only", raw: "token=a=b", want: Form{"token": "a=b"}},
		{name: "keeps empty value", raw: "name=&id=7", want: Form{"name": "", "id": "7"}},
		{name: "last duplicate wins", raw: "a=1&a=2", want: Form{"a": "2"}},
		{name: "leaves percent encoding alone", raw: "email=a%40b.com", want: Form{"email": "a%40b.com"}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := ParseForm(tc.raw)
			if got == nil {
				t.Fatalf("expected non-nil form")
			}
			if len(got) != len(tc.want) {
				t.Fatalf("expected %d fields, got %d (%v)", len(tc.want), len(got), got)
			}
			for key, want := range tc.want {
				value, ok := got.Lookup(key)
				if !ok {
					t.Fatalf("expected key %q to be present", key)
				}
				if value != want {
					t.Fatalf("expected %q for key %q, got %q", want, key, value)
				}
			}
		})
	}
}
