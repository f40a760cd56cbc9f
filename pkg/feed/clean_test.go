package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"empty", "", ""},
		{"plain", "just text", "just text"},
		{"markup", "<p>Hello <b>world</b></p>\n<p>again</p>", "Hello world again"},
		{"entities", "Tom &amp; Jerry &lt;3 &quot;quoted&quot;", `Tom & Jerry <3 "quoted"`},
		{"whitespace", "  many\n\n  lines\tand   spaces ", "many lines and spaces"},
		{"script dropped", "<script>alert(1)</script>visible", "visible"},
		{"arxiv style", "arXiv:2401.00001v1 Announce Type: new \nAbstract: We study <i>things</i>.", "arXiv:2401.00001v1 Announce Type: new Abstract: We study things."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanText(tt.in))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "no limit", Truncate("no limit", 0))
	assert.Equal(t, "hello big…", Truncate("hello big world", 12))
	assert.Equal(t, "абвгд…", Truncate("абвгдежз", 5))
}
