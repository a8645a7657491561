package embedding

import "testing"

func TestSimpleTokenizer(t *testing.T) {
	tok := &SimpleTokenizer{}
	ids, mask, types := tok.Tokenize("hello world", 8)
	if len(ids) != 8 || len(mask) != 8 || len(types) != 8 {
		t.Fatalf("lengths: %d %d %d", len(ids), len(mask), len(types))
	}
	if ids[0] != 101 {
		t.Errorf("first token should be [CLS], got %d", ids[0])
	}
	if ids[3] != 102 {
		t.Errorf("token after words should be [SEP], got %d", ids[3])
	}
	if mask[0] != 1 || mask[1] != 1 || mask[2] != 1 || mask[3] != 1 {
		t.Errorf("attention mask: %v", mask)
	}
	if mask[4] != 0 {
		t.Error("padding should have zero attention")
	}
}

func TestSimpleTokenizer_Truncation(t *testing.T) {
	tok := &SimpleTokenizer{}
	ids, _, _ := tok.Tokenize("a b c d e f g h i j", 4)
	if len(ids) != 4 {
		t.Fatalf("length: %d", len(ids))
	}
}

func TestSplitWords(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"   ", 0},
		{"one", 1},
		{"one two\tthree\nfour", 4},
		{"  leading and trailing  ", 3},
	}
	for _, tt := range tests {
		if got := SplitWords(tt.in); len(got) != tt.want {
			t.Errorf("SplitWords(%q): got %d words %v, want %d", tt.in, len(got), got, tt.want)
		}
	}
}

func TestHashString(t *testing.T) {
	if HashString("word") != HashString("word") {
		t.Error("hash should be deterministic")
	}
	if HashString("word") < 0 {
		t.Error("hash should be non-negative")
	}
}
