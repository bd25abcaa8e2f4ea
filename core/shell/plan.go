package shell

// Redirect is one redirection of a stage, in source order.
type Redirect struct {
	Kind   TokenKind
	Target Token
}

// Stage is one command of a pipeline with everything needed to launch it.
type Stage struct {
	// Index is the position of the stage in the pipeline.
	Index     int
	Redirects []Redirect
	Args      []Token
}

// Heredocs counts the stage's heredoc redirections.
func (s *Stage) Heredocs() int {
	count := 0
	for _, r := range s.Redirects {
		if r.Kind == Heredoc {
			count++
		}
	}
	return count
}

// Plan flattens the tree into stages in execution order.
func Plan(root Node) []*Stage {
	var stages []*Stage
	var walk func(Node)
	walk = func(n Node) {
		switch n := n.(type) {
		case *PipeNode:
			walk(n.Left)
			walk(n.Right)
		case *RedirNode, *ExecNode:
			stage := &Stage{Index: len(stages)}
			for n != nil {
				switch cur := n.(type) {
				case *RedirNode:
					stage.Redirects = append(stage.Redirects, Redirect{Kind: cur.Kind, Target: cur.Target})
					n = cur.Next
				case *ExecNode:
					stage.Args = cur.Args
					n = nil
				default:
					n = nil
				}
			}
			stages = append(stages, stage)
		}
	}
	walk(root)
	return stages
}
