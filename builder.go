package jobsh

import (
	"errors"
	"fmt"

	"jobsh/parser"
)

var (
	ErrMissingRedirectTarget = errors.New("missing redirection target")
	ErrEmptyCommand          = errors.New("empty command")
	ErrUnexpectedToken       = errors.New("unexpected token")
)

// Builder assembles a JobList one token at a time. The zero value is not
// usable; call NewBuilder.
type Builder struct {
	list    *JobList
	cur     int
	pending Stream // stream waiting for a filename, -1 if none
	err     error
}

func NewBuilder() *Builder {
	b := &Builder{list: &JobList{}, pending: -1}
	b.open(1, -1)
	return b
}

// open appends a fresh node in the given group after prev.
func (b *Builder) open(group, prev int) {
	b.list.Nodes = append(b.list.Nodes, Node{Group: group, Prev: prev, Next: -1})
	idx := len(b.list.Nodes) - 1
	if prev != -1 {
		b.list.Nodes[prev].Next = idx
	}
	b.cur = idx
}

func (b *Builder) node() *Node { return &b.list.Nodes[b.cur] }

// closeNode checks that the current node can be terminated by tok.
func (b *Builder) closeNode(tok parser.Token) error {
	if b.pending != -1 {
		return fmt.Errorf("%w after %s", ErrMissingRedirectTarget, b.pending)
	}
	if len(b.node().Args) == 0 {
		return fmt.Errorf("%w before %q", ErrEmptyCommand, tok.String())
	}
	return nil
}

// Add consumes the next token. Once Add has failed, every later call returns
// the same error.
func (b *Builder) Add(tok parser.Token) error {
	if b.err != nil {
		return b.err
	}
	b.err = b.add(tok)
	return b.err
}

func (b *Builder) add(tok parser.Token) error {
	n := b.node()
	switch tok.Kind {
	case parser.Word:
		if b.pending != -1 {
			n.Redirects[b.pending] = tok.Text
			b.pending = -1
			return nil
		}
		n.Args = append(n.Args, tok.Text)

	case parser.Redirect:
		if b.pending != -1 {
			return fmt.Errorf("%w after %s", ErrMissingRedirectTarget, b.pending)
		}
		switch tok.Text {
		case "<":
			b.pending = Stdin
		case ">":
			b.pending = Stdout
		case "2>":
			b.pending = Stderr
		default:
			return fmt.Errorf("%w: %q", ErrUnexpectedToken, tok.Text)
		}

	case parser.Pipe:
		if err := b.closeNode(tok); err != nil {
			return err
		}
		n.Pipe |= PipeWrites
		b.open(n.Group, b.cur)
		b.node().Pipe |= PipeReads

	case parser.And, parser.Or:
		if err := b.closeNode(tok); err != nil {
			return err
		}
		n.Op = OpAnd
		if tok.Kind == parser.Or {
			n.Op = OpOr
		}
		b.open(n.Group, b.cur)

	case parser.Sequence:
		if err := b.closeNode(tok); err != nil {
			return err
		}
		b.open(n.Group+1, b.cur)

	case parser.Background:
		if err := b.closeNode(tok); err != nil {
			return err
		}
		n.Background = true
		b.open(n.Group+1, b.cur)

	default:
		return fmt.Errorf("%w: %s", ErrUnexpectedToken, tok.Kind)
	}
	return nil
}

// Finish validates the end of input and returns the list. A trailing empty
// node left by ';' or '&' is dropped; one left by '|', '&&' or '||' is an
// error.
func (b *Builder) Finish() (*JobList, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.pending != -1 {
		return nil, fmt.Errorf("%w after %s", ErrMissingRedirectTarget, b.pending)
	}

	list := b.list
	last := &list.Nodes[b.cur]
	if len(last.Args) == 0 {
		if hasRedirect(last) {
			return nil, fmt.Errorf("%w: redirection without a command", ErrEmptyCommand)
		}
		if last.Prev != -1 {
			prev := &list.Nodes[last.Prev]
			if prev.Op != OpNone || prev.Pipe.WritesNext() {
				return nil, fmt.Errorf("%w at end of line", ErrEmptyCommand)
			}
			prev.Next = -1
		}
		list.Nodes = list.Nodes[:b.cur]
	}

	for i := range list.Nodes {
		list.Nodes[i].Builtin = IsBuiltin(list.Nodes[i].Args[0])
	}
	return list, nil
}

func hasRedirect(n *Node) bool {
	for _, path := range n.Redirects {
		if path != "" {
			return true
		}
	}
	return false
}

// Build runs every token through a new Builder.
func Build(tokens []parser.Token) (*JobList, error) {
	b := NewBuilder()
	for _, tok := range tokens {
		if err := b.Add(tok); err != nil {
			return nil, err
		}
	}
	return b.Finish()
}
