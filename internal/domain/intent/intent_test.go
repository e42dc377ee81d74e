package intent

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Intent
	}{
		{"Accommodation", Accommodation},
		{"  Restaurant\n", Restaurant},
		{"event", Event},
		{"\"Event\".", Event},
		{"General", General},
		{"Restaurants", General},
		{"I think this is about food", General},
		{"The intent is Restaurant", General},
		{"`Accommodation`", Accommodation},
		{"", General},
	}
	for _, tc := range tests {
		if got := Parse(tc.in); got != tc.want {
			t.Errorf("Parse(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestIsTyped(t *testing.T) {
	if General.IsTyped() {
		t.Error("General must not be typed")
	}
	for _, i := range []Intent{Accommodation, Restaurant, Event} {
		if !i.IsTyped() {
			t.Errorf("%s must be typed", i)
		}
	}
}
