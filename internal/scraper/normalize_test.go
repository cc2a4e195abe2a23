package scraper

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain words", "Tenis Old Skool Negro", "tenis-old-skool-negro"},
		{"accents and enye", "Camión Niño Eléctrico", "camion-nino-electrico"},
		{"punctuation runs", "  iPhone 13 -- 128GB (Open Box)! ", "iphone-13-128gb-open-box"},
		{"only symbols", "***", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Slugify(tt.in)
			if got != tt.want {
				t.Fatalf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if again := Slugify(got); again != got {
				t.Fatalf("Slugify is not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in     string
		want   int64
		wantOK bool
	}{
		{"$1.250.000", 1250000, true},
		{"Precio: $ 89.900 COP", 89900, true},
		{"Gratis", 0, false},
		{"$0", 0, false},
		{"", 0, false},
		{"$99999999999999999999999", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParsePrice(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParsePrice(%q) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestDecodeText(t *testing.T) {
	got := DecodeText("  Gorra&nbsp;New &amp; Era \n\t &quot;59&quot; &#39;Fifty&#39; &lt;3&gt; ")
	want := `Gorra New & Era "59" 'Fifty' <3>`
	if got != want {
		t.Fatalf("DecodeText = %q, want %q", got, want)
	}
}
