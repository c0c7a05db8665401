package component

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOwnText(t *testing.T) {
	cases := []struct {
		name string
		html string
		want string
	}{
		{"own text only", `<span class="price">  12,50
			<small>EUR</small></span>`, "12,50"},
		{"text after child", `<div><b>Label:</b> value </div>`, "value"},
		{"nested first", `<div><p><span>deep   text</span></p></div>`, "deep text"},
		{"no text", `<div><img src="a.png"></div>`, ""},
		{"empty", ``, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ownText(tc.html))
		})
	}
}

func TestIndexOfClassHelper(t *testing.T) {
	list := `<li>one</li><li>two</li><li class="active">three</li>`

	assert.Equal(t, 2, indexOfClass("<ul>"+list+"</ul>", "active"))
	assert.Equal(t, -1, indexOfClass("<ul>"+list+"</ul>", "selected"))
	assert.Equal(t, 0, indexOfClass(`<div class="active">x</div><div class="active">y</div>`, "active"))
}
