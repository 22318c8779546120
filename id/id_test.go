package id

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestIDString(t *testing.T) {
	c := qt.New(t)
	tests := []struct {
		id   ID
		want string
	}{
		{ILLEGAL, "ILLEGAL"},
		{EOF, "EOF"},
		{LAND, "&&"},
		{DOLLDP, "$(("},
		{DHEREDOC, "<<-"},
		{WHEREDOC, "<<<"},
		{TREMATCH, "=~"},
		{ID(9999), "unknown"},
	}
	for _, tc := range tests {
		c.Assert(tc.id.String(), qt.Equals, tc.want)
	}
}

func TestReserved(t *testing.T) {
	c := qt.New(t)
	for _, w := range []string{"if", "then", "elif", "else", "fi",
		"while", "until", "do", "done", "for", "in", "case", "esac",
		"function", "select", "time"} {
		c.Assert(Reserved(w), qt.IsTrue, qt.Commentf("word %q", w))
	}
	for _, w := range []string{"echo", "foo", "IF", "", "fii"} {
		c.Assert(Reserved(w), qt.IsFalse, qt.Commentf("word %q", w))
	}
}
