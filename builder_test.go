package jobsh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobsh/parser"
)

func build(t *testing.T, input string) (*JobList, error) {
	t.Helper()
	tokens, err := parser.Tokenize(input)
	require.NoError(t, err)
	return Build(tokens)
}

func mustBuild(t *testing.T, input string) *JobList {
	t.Helper()
	list, err := build(t, input)
	require.NoError(t, err, "input %q", input)
	return list
}

func TestBuildPipeline(t *testing.T) {
	list := mustBuild(t, "ls -l | grep go | wc -l")
	require.Equal(t, 3, list.Len())

	assert.Equal(t, []string{"ls", "-l"}, list.Nodes[0].Args)
	assert.Equal(t, PipeWrites, list.Nodes[0].Pipe)
	assert.Equal(t, PipeBoth, list.Nodes[1].Pipe)
	assert.Equal(t, PipeReads, list.Nodes[2].Pipe)

	for i := range list.Nodes {
		assert.Equal(t, 1, list.Nodes[i].Group)
		assert.Equal(t, i-1, list.Nodes[i].Prev)
	}
	assert.Equal(t, -1, list.Nodes[2].Next)
	assert.Equal(t, 2, list.RunEnd(0))
}

func TestBuildConditionals(t *testing.T) {
	list := mustBuild(t, "false && echo no || echo yes")
	require.Equal(t, 3, list.Len())

	assert.Equal(t, OpAnd, list.Nodes[0].Op)
	assert.Equal(t, OpOr, list.Nodes[1].Op)
	assert.Equal(t, OpNone, list.Nodes[2].Op)
	for _, n := range list.Nodes {
		assert.Equal(t, 1, n.Group)
		assert.Equal(t, PipeNone, n.Pipe)
	}
}

func TestBuildGroups(t *testing.T) {
	list := mustBuild(t, "a ; b | c & d && e")
	require.Equal(t, 5, list.Len())

	got := make([]int, list.Len())
	for i, n := range list.Nodes {
		got[i] = n.Group
	}
	assert.Equal(t, []int{1, 2, 2, 3, 3}, got)
	assert.True(t, list.Nodes[2].Background)
	assert.False(t, list.Nodes[1].Background)

	groups := list.Groups()
	require.Len(t, groups, 3)
	assert.Equal(t, Group{ID: 1, First: 0, Last: 0}, groups[0])
	assert.Equal(t, Group{ID: 2, First: 1, Last: 2, Background: true}, groups[1])
	assert.Equal(t, Group{ID: 3, First: 3, Last: 4}, groups[2])
}

func TestBuildRedirects(t *testing.T) {
	list := mustBuild(t, "sort < in.txt > out.txt 2> err.txt -r")
	require.Equal(t, 1, list.Len())

	n := list.Nodes[0]
	assert.Equal(t, []string{"sort", "-r"}, n.Args)
	assert.Equal(t, "in.txt", n.Redirects[Stdin])
	assert.Equal(t, "out.txt", n.Redirects[Stdout])
	assert.Equal(t, "err.txt", n.Redirects[Stderr])
	assert.Equal(t, "sort -r < in.txt > out.txt 2> err.txt", n.String())
}

func TestBuildRepeatedRedirectReplaces(t *testing.T) {
	list := mustBuild(t, "echo hi > a.txt > b.txt")
	assert.Equal(t, "b.txt", list.Nodes[0].Redirects[Stdout])
}

func TestBuildTrailingSeparators(t *testing.T) {
	for _, input := range []string{"echo hi ;", "sleep 1 &"} {
		list := mustBuild(t, input)
		require.Equal(t, 1, list.Len(), input)
		assert.Equal(t, -1, list.Nodes[0].Next, input)
	}

	list := mustBuild(t, "sleep 1 &")
	assert.True(t, list.Nodes[0].Background)
}

func TestBuildBuiltinFlag(t *testing.T) {
	list := mustBuild(t, "cd /tmp && ls")
	assert.True(t, list.Nodes[0].Builtin)
	assert.False(t, list.Nodes[1].Builtin)
}

func TestBuildEmpty(t *testing.T) {
	list := mustBuild(t, "")
	assert.Equal(t, 0, list.Len())
	assert.Equal(t, -1, list.Head())
	assert.Empty(t, list.Groups())
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		input string
		want  error
	}{
		{"ls |", ErrEmptyCommand},
		{"true &&", ErrEmptyCommand},
		{"false ||", ErrEmptyCommand},
		{"| ls", ErrEmptyCommand},
		{"; ls", ErrEmptyCommand},
		{"ls ;; ls", ErrEmptyCommand},
		{"ls >", ErrMissingRedirectTarget},
		{"ls > | cat", ErrMissingRedirectTarget},
		{"cat < > out", ErrMissingRedirectTarget},
		{"> out", ErrEmptyCommand},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := build(t, tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestBuilderStickyError(t *testing.T) {
	b := NewBuilder()
	err := b.Add(parser.Token{Kind: parser.Pipe, Text: "|"})
	require.ErrorIs(t, err, ErrEmptyCommand)

	assert.ErrorIs(t, b.Add(parser.Token{Kind: parser.Word, Text: "ls"}), ErrEmptyCommand)
	_, err = b.Finish()
	assert.ErrorIs(t, err, ErrEmptyCommand)
}
