package jobsh

import (
	"strings"
)

// PipeRole records how a node is connected to its lexical neighbours.
type PipeRole uint8

const (
	PipeNone   PipeRole = 0
	PipeReads  PipeRole = 1 << 0 // stdin comes from the previous stage
	PipeWrites PipeRole = 1 << 1 // stdout goes to the next stage
	PipeBoth            = PipeReads | PipeWrites
)

func (p PipeRole) ReadsPrev() bool  { return p&PipeReads != 0 }
func (p PipeRole) WritesNext() bool { return p&PipeWrites != 0 }

// CondOp is the conditional operator linking a node to the one after it.
type CondOp uint8

const (
	OpNone CondOp = iota
	OpAnd
	OpOr
)

func (op CondOp) String() string {
	switch op {
	case OpAnd:
		return "&&"
	case OpOr:
		return "||"
	}
	return ""
}

// Outcome is the success or failure of the cd built-in, which has no wait
// status of its own.
type Outcome uint8

const (
	OutcomeUnknown Outcome = iota
	OutcomeSuccess
	OutcomeFailure
)

// Status converts the outcome into the exit status conditional logic reads.
func (o Outcome) Status() int {
	if o == OutcomeSuccess {
		return 0
	}
	return 1
}

// Stream indexes the three redirectable standard streams.
type Stream int

const (
	Stdin Stream = iota
	Stdout
	Stderr
)

func (s Stream) String() string {
	return [...]string{"<", ">", "2>"}[s]
}

// Node is one pipeline stage: an external program or the cd built-in.
type Node struct {
	Args           []string  `json:"args"`
	Redirects      [3]string `json:"redirects"` // indexed by Stream, "" means none
	Pipe           PipeRole  `json:"pipe"`
	Op             CondOp    `json:"op"`
	Background     bool      `json:"background"`
	Group          int       `json:"group"`
	Builtin        bool      `json:"builtin"`
	BuiltinOutcome Outcome   `json:"-"`
	Pid            int       `json:"-"`
	Prev           int       `json:"prev"`
	Next           int       `json:"next"`
}

// String renders the node roughly as it was typed.
func (n *Node) String() string {
	var b strings.Builder
	b.WriteString(strings.Join(n.Args, " "))
	for s, path := range n.Redirects {
		if path != "" {
			b.WriteString(" " + Stream(s).String() + " " + path)
		}
	}
	return b.String()
}

// JobList is the arena of nodes for one input line. Nodes refer to their
// neighbours by index; -1 means none.
type JobList struct {
	Nodes []Node `json:"nodes"`
}

// Len is the number of executable nodes.
func (l *JobList) Len() int { return len(l.Nodes) }

// Head returns the index of the first node, or -1 for an empty list.
func (l *JobList) Head() int {
	if len(l.Nodes) == 0 {
		return -1
	}
	return 0
}

// Node returns the node at index i.
func (l *JobList) Node(i int) *Node { return &l.Nodes[i] }

// Next returns the index after i, or -1.
func (l *JobList) Next(i int) int { return l.Nodes[i].Next }

// RunEnd advances from i past every node pipe-connected to it and returns
// the index of the run's final stage. It is the single place that walks a
// pipeline run.
func (l *JobList) RunEnd(i int) int {
	for l.Nodes[i].Pipe.WritesNext() && l.Nodes[i].Next != -1 {
		i = l.Nodes[i].Next
	}
	return i
}

// Advance moves n nodes forward from i.
func (l *JobList) Advance(i, n int) int {
	for ; n > 0 && i != -1; n-- {
		i = l.Nodes[i].Next
	}
	return i
}

// Group is a contiguous range of nodes sharing one group id.
type Group struct {
	ID         int
	First      int
	Last       int
	Background bool
}

// Groups partitions the list into job groups in order. A group is in the
// background when its final node carries the & marker.
func (l *JobList) Groups() []Group {
	var groups []Group
	for i := l.Head(); i != -1; {
		g := Group{ID: l.Nodes[i].Group, First: i}
		for i != -1 && l.Nodes[i].Group == g.ID {
			g.Last = i
			i = l.Nodes[i].Next
		}
		g.Background = l.Nodes[g.Last].Background
		groups = append(groups, g)
	}
	return groups
}

// Slice copies the nodes from first to last into a standalone list with
// relinked indices.
func (l *JobList) Slice(first, last int) *JobList {
	sub := &JobList{}
	for i := first; i != -1; i = l.Nodes[i].Next {
		n := l.Nodes[i]
		n.Prev = len(sub.Nodes) - 1
		n.Next = len(sub.Nodes) + 1
		sub.Nodes = append(sub.Nodes, n)
		if i == last {
			break
		}
	}
	if len(sub.Nodes) > 0 {
		sub.Nodes[len(sub.Nodes)-1].Next = -1
	}
	return sub
}

// Describe renders the nodes from first to last for job notifications.
func (l *JobList) Describe(first, last int) string {
	var b strings.Builder
	for i := first; i != -1; i = l.Nodes[i].Next {
		n := &l.Nodes[i]
		b.WriteString(n.String())
		if i == last {
			break
		}
		switch {
		case n.Pipe.WritesNext():
			b.WriteString(" | ")
		case n.Op != OpNone:
			b.WriteString(" " + n.Op.String() + " ")
		}
	}
	return b.String()
}
