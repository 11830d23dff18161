package extract

import (
	"reflect"
	"testing"
)

func TestPhoneNumbers(t *testing.T) {
	cases := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "parenthesized and dotted",
			text: "Call (555) 123-4567 or 555.987.6543",
			want: []string{"15551234567", "15559876543"},
		},
		{
			name: "no separators",
			text: "5551234567",
			want: []string{"15551234567"},
		},
		{
			name: "dash separated",
			text: "reach me at 555-123-4567 thanks",
			want: []string{"15551234567"},
		},
		{
			name: "space separated",
			text: "fax: 555 987 6543",
			want: []string{"15559876543"},
		},
		{
			name: "leading country code",
			text: "dial 1-555-123-4567 today",
			want: []string{"15551234567"},
		},
		{
			name: "eleven digit run",
			text: "id 15551234567 on file",
			want: []string{"15551234567"},
		},
		{
			name: "duplicates collapse",
			text: "(555) 123-4567 or 555-123-4567 or 5551234567",
			want: []string{"15551234567"},
		},
		{
			name: "multiple distinct preserve order",
			text: "first 555-111-2222 then 555-333-4444",
			want: []string{"15551112222", "15553334444"},
		},
		{
			name: "no matches",
			text: "nothing to see here, 1234 is too short",
			want: []string{},
		},
		{
			name: "short digit runs ignored",
			text: "order 123456789 total 42",
			want: []string{},
		},
		{
			name: "raw fallback admits non-canonical eleven digit run",
			text: "serial 22345678901 logged",
			want: []string{"22345678901"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := PhoneNumbers(tc.text)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("PhoneNumbers(%q) = %v, want %v", tc.text, got, tc.want)
			}
		})
	}
}

func TestPhoneNumbersDeterministic(t *testing.T) {
	text := "a (555) 123-4567 b 555.987.6543 c 5551112222"
	first := PhoneNumbers(text)
	for i := 0; i < 5; i++ {
		if got := PhoneNumbers(text); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differs: %v vs %v", i, got, first)
		}
	}
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"(555) 123-4567", "15551234567"},
		{"5551234567", "15551234567"},
		{"15551234567", "15551234567"},
		{"1-555-123-4567", "15551234567"},
		{"22345678901", "22345678901"},
		{"123", "123"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
