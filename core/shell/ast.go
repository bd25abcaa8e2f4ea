package shell

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrMissingOperand is returned when a redirection has no target.
	ErrMissingOperand = errors.New("redirection is missing its operand")
	// ErrEmptySegment is returned when a pipeline has an empty command.
	ErrEmptySegment = errors.New("empty command in pipeline")
)

// Node is a node of the command tree: a *PipeNode, *RedirNode or *ExecNode.
type Node interface {
	node()
}

// PipeNode connects the output of Left to the input of Right. Left is always a
// single command, Right is the rest of the pipeline.
type PipeNode struct {
	Left  Node
	Right Node
}

// RedirNode applies one redirection, then continues with Next, which is
// either another *RedirNode or the command's *ExecNode.
type RedirNode struct {
	Kind   TokenKind
	Target Token
	Next   Node
}

// ExecNode ends a command; Args may be empty.
type ExecNode struct {
	Args []Token
}

func (*PipeNode) node()  {}
func (*RedirNode) node() {}
func (*ExecNode) node()  {}

// Build turns validated tokens into a command tree.
func Build(tokens []Token) (Node, error) {
	end := len(tokens)
	for i, tok := range tokens {
		if tok.Kind == Pipe {
			end = i
			break
		}
	}

	left, err := buildSegment(tokens[:end])
	if err != nil {
		return nil, err
	}
	if end == len(tokens) {
		return left, nil
	}

	right, err := Build(tokens[end+1:])
	if err != nil {
		return nil, err
	}
	return &PipeNode{Left: left, Right: right}, nil
}

func buildSegment(tokens []Token) (Node, error) {
	if len(tokens) == 0 {
		return nil, ErrEmptySegment
	}

	var redirs []*RedirNode
	exec := &ExecNode{}
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if !tok.Kind.IsRedirect() {
			exec.Args = append(exec.Args, tok)
			continue
		}

		if i+1 >= len(tokens) || tokens[i+1].Kind.IsOperator() {
			return nil, fmt.Errorf("%w: %s", ErrMissingOperand, tok.Kind.Symbol())
		}
		i++
		target := tokens[i]
		target.Kind = Word
		redirs = append(redirs, &RedirNode{Kind: tok.Kind, Target: target})
	}

	var next Node = exec
	for i := len(redirs) - 1; i >= 0; i-- {
		redirs[i].Next = next
		next = redirs[i]
	}
	return next, nil
}

// Fprint writes an indented dump of the tree.
func Fprint(w io.Writer, n Node) {
	fprint(w, n, 0)
}

func fprint(w io.Writer, n Node, depth int) {
	indent := strings.Repeat("  ", depth)
	switch n := n.(type) {
	case *PipeNode:
		fmt.Fprintf(w, "%sPipe\n", indent)
		fprint(w, n.Left, depth+1)
		fprint(w, n.Right, depth+1)
	case *RedirNode:
		fmt.Fprintf(w, "%sRedir %s %q\n", indent, n.Kind.Symbol(), n.Target.Value)
		fprint(w, n.Next, depth+1)
	case *ExecNode:
		var args []string
		for _, arg := range n.Args {
			args = append(args, fmt.Sprintf("%s:%q", arg.Kind, arg.Value))
		}
		fmt.Fprintf(w, "%sExec [%s]\n", indent, strings.Join(args, " "))
	default:
		fmt.Fprintf(w, "%s<nil>\n", indent)
	}
}
