package model

import (
	"github.com/cloudwego/eino/schema"
)

// AppState stores per-invocation state for the Eino Graph.
// Concurrency model:
//   - This struct is registered as Graph Local State via compose.WithGenLocalState,
//     so every run starts from a fresh value and nothing survives the run.
//   - All reads/writes happen only inside Eino state handlers:
//     WithStatePreHandler, WithStatePostHandler, or compose.ProcessState.
//   - Eino serializes access to state within these handlers, so no additional
//     mutex/atomic is required as long as you never touch it outside handlers.
type AppState struct {
	RunID         string
	Messages      []*schema.Message  // append-only for the duration of a run
	LLMCalls      int                // monotonic; seeded from RunInput.LLMCalls
	ParsedInput   *ParsedInput       // set by parse_input
	Pipeline      *PipelineArtifacts // non-nil once the fixed pipeline ran; set at most once
	ToolCallIDSeq int                // local sequence to synthesize tool_call_id when provider omits

	// Accumulated total LLM cost (USD) across model invocations for this run
	TotalCostUSD float64
}

// Append adds messages to the run history, skipping nils.
func (s *AppState) Append(msgs ...*schema.Message) {
	for _, m := range msgs {
		if m != nil {
			s.Messages = append(s.Messages, m)
		}
	}
}

// Last returns the most recent history message or nil.
func (s *AppState) Last() *schema.Message {
	if len(s.Messages) == 0 {
		return nil
	}
	return s.Messages[len(s.Messages)-1]
}

// Utterance returns the parsed user utterance, empty when parse_input has not run.
func (s *AppState) Utterance() string {
	if s.ParsedInput == nil {
		return ""
	}
	return s.ParsedInput.Text
}

// ParsedInput is the latest user utterance extracted by parse_input.
type ParsedInput struct {
	Text  string `json:"user_query"`
	Valid bool   `json:"valid"`
}

// PipelineArtifacts records the intermediate products of the fixed ROS2 pipeline.
type PipelineArtifacts struct {
	Topics []string     `json:"ros2_topic_list,omitempty"`
	Config *RobotConfig `json:"ros2_parsed_config,omitempty"`
	NodePy string       `json:"generated_node_py,omitempty"`
	Err    string       `json:"error,omitempty"`
}

// RunInput is the graph input: the caller's messages plus the invocation counter seed.
type RunInput struct {
	RunID    string    `json:"run_id,omitempty"`
	Messages []Inbound `json:"-"`
	LLMCalls int       `json:"llm_calls"`
}

// OutcomeKind tells the routing branch whether the run may continue.
type OutcomeKind int

const (
	// OutcomeContinue hands the message to tool execution or summarization.
	OutcomeContinue OutcomeKind = iota
	// OutcomeTerminal finalizes the run with Message as the answer.
	OutcomeTerminal
)

func (k OutcomeKind) String() string {
	if k == OutcomeTerminal {
		return "terminal"
	}
	return "continue"
}

// Outcome is produced by llm_decide and llm_summarize.
type Outcome struct {
	Kind    OutcomeKind
	Message *schema.Message
}

// Continue builds a non-terminal outcome.
func Continue(msg *schema.Message) Outcome {
	return Outcome{Kind: OutcomeContinue, Message: msg}
}

// Terminal builds an outcome that ends the run.
func Terminal(msg *schema.Message) Outcome {
	return Outcome{Kind: OutcomeTerminal, Message: msg}
}

// IsTerminal reports whether the run must end without further LLM calls.
func (o Outcome) IsTerminal() bool {
	return o.Kind == OutcomeTerminal
}

// WantsTools reports whether a continuing outcome carries tool-call requests.
func (o Outcome) WantsTools() bool {
	return o.Kind == OutcomeContinue && o.Message != nil && len(o.Message.ToolCalls) > 0
}

// RunResult is the terminal state of one run.
type RunResult struct {
	RunID             string             `json:"run_id"`
	Messages          []*schema.Message  `json:"messages"`
	LLMCalls          int                `json:"llm_calls"`
	ParsedInput       *ParsedInput       `json:"parsed_input,omitempty"`
	PipelineTriggered bool               `json:"ros2_task_triggered"`
	Pipeline          *PipelineArtifacts `json:"ros2,omitempty"`
	TotalCostUSD      float64            `json:"total_cost_usd"`
}

// Final returns the last message of the run, the user-facing answer.
func (r *RunResult) Final() *schema.Message {
	if r == nil || len(r.Messages) == 0 {
		return nil
	}
	return r.Messages[len(r.Messages)-1]
}

// StageDelta is what one completed graph node contributed to the run.
type StageDelta struct {
	RunID    string            `json:"run_id,omitempty"`
	Node     string            `json:"node"`
	Messages []*schema.Message `json:"messages,omitempty"`
	Terminal bool              `json:"terminal,omitempty"`
}
