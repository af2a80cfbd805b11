package main

import (
	"bytes"
	"strings"
	"testing"

	"Point83GIFs/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrompterForumRepromptsOnInvalidEntry(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("x\n1\n"), &out)

	key, err := p.Forum(config.Default())

	require.NoError(t, err)
	assert.Equal(t, "1", key)
	assert.Equal(t, 1, strings.Count(out.String(), "ERROR:  Invalid entry."))
	assert.Contains(t, out.String(), "Westlake Center:                     enter a \"1\".")
	assert.Contains(t, out.String(), "Wrenches Gears Lawns and Routes:     enter a \"2\".")
	assert.Contains(t, out.String(), "Enter 1, 2, or 3:")
}

func TestPrompterTotalPages(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{name: "空入力は全ページ", input: "\n", want: config.UnlimitedPages},
		{name: "数値", input: "5\n", want: 5},
		{name: "非数値は再入力", input: "abc\n7\n", want: 7},
		{name: "0は再入力", input: "0\n2\n", want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPrompter(strings.NewReader(tt.input), &bytes.Buffer{})
			got, err := p.TotalPages()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrompterStartPage(t *testing.T) {
	p := NewPrompter(strings.NewReader("\n"), &bytes.Buffer{})
	got, err := p.StartPage()
	require.NoError(t, err)
	assert.Equal(t, 1, got)

	var out bytes.Buffer
	p = NewPrompter(strings.NewReader("three\n3"), &out)
	got, err = p.StartPage()
	require.NoError(t, err)
	assert.Equal(t, 3, got)
	assert.Contains(t, out.String(), "ERROR:  Invalid; enter an integer.")
}

func TestPrompterReturnsErrorOnClosedInput(t *testing.T) {
	p := NewPrompter(strings.NewReader(""), &bytes.Buffer{})

	_, err := p.Forum(config.Default())

	assert.ErrorIs(t, err, errInputClosed)
}

func TestJoinChoices(t *testing.T) {
	assert.Equal(t, "1", joinChoices([]string{"1"}))
	assert.Equal(t, "1 or 2", joinChoices([]string{"1", "2"}))
	assert.Equal(t, "1, 2, or 3", joinChoices([]string{"1", "2", "3"}))
}
