package store

// Kinds of guard evaluation recorded in the log.
const (
	KindOutputCondition = "output_condition"
	KindEdge            = "edge"
	KindInputCondition  = "input_condition"
)

// Run is one routing session over a graph.
type Run struct {
	ID           string `json:"id"`
	GraphHash    string `json:"graph_hash"`
	StartedAtSeq int64  `json:"started_at_seq"`
	Source       string `json:"source"`
}

// Evaluation records one guard evaluated while routing a message.
//
// Guard is the canonical string form of the predicate. Message is the
// payload serialized as JSON text.
type Evaluation struct {
	RunID    string `json:"run_id"`
	Seq      int64  `json:"seq"`
	Kind     string `json:"kind"`
	Edge     string `json:"edge,omitempty"`
	NodeFrom string `json:"node_from"`
	NodeTo   string `json:"node_to,omitempty"`
	Guard    string `json:"guard"`
	Message  string `json:"message"`
	Result   bool   `json:"result"`
	Error    string `json:"error,omitempty"`
}
