package chat

import "fmt"

// 图节点名称
const (
	NodeRefineQuery    = "refine_query"
	NodeQueryOrRespond = "query_or_respond"
	NodeRetrieve       = "retrieve"
	NodeGenerate       = "generate"
)

// GraphExecutionError 图节点执行失败
type GraphExecutionError struct {
	Node string
	Err  error
}

func (e *GraphExecutionError) Error() string {
	return fmt.Sprintf("graph node %s failed: %v", e.Node, e.Err)
}

func (e *GraphExecutionError) Unwrap() error { return e.Err }
